package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/lutgen/pkg"
)

// Version prints the program version.
type Version struct {
	Verbose bool `help:"Also print configuration paths." short:"v"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	w := outputFrom(ctx)

	fmt.Fprintf(w, "%s %s\n", pkg.Name, pkg.Version)

	if v.Verbose {
		fmt.Fprintf(w, "config: %s\n", kongVar(ctx, ConfigIdentifier))
		fmt.Fprintf(w, "cache:  %s\n", kongVar(ctx, CacheIdentifier))
	}

	return nil
}
