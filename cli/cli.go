package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lutgen/cli/cmd"
	"github.com/ardnew/lutgen/pkg"
)

// CLI is the top-level command-line interface for lutgen.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Gen     cmd.Gen     `cmd:"" default:"withargs" help:"Generate Go lookup tables (default)."`
	Check   cmd.Check   `cmd:""                    help:"Validate table specifications."`
	Inspect cmd.Inspect `cmd:""                    help:"Print a parsed table specification."`
	Eval    cmd.Eval    `cmd:""                    help:"Evaluate table cells at run time."`
	Version cmd.Version `cmd:""                    help:"Print version information."`
}

// Run parses args and runs the selected command. Kong calls exit after
// printing help or a usage error.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Apply the log flags before parsing so that parse errors are already
	// reported in the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// options returns the kong options of the lutgen parser. Flag values are
// resolved from, in increasing precedence, config.json, config.yaml,
// LUTGEN_* environment variables and the command line.
func (c *CLI) options(ctx context.Context, exit func(code int)) []kong.Option {
	config := pkg.ConfigPath("config")

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.DefaultEnvars(strings.ToUpper(pkg.Name)),
		kong.Configuration(kong.JSON, config+".json"),
		kong.Configuration(resolve, config+".yaml", config+".yml"),
		kong.Vars{
			cmd.ConfigIdentifier: config + ".yaml",
			cmd.CacheIdentifier:  pkg.CacheDir(),
		}.
			CloneWith(c.Log.vars()).
			CloneWith(c.Pprof.vars()),
	}
}
