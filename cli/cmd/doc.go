// Package cmd implements the lutgen subcommands.
//
// Each command is a kong command struct whose Run method receives the
// application context. Commands write their results to the writer stored
// with [WithOutput], os.Stdout by default, and return [Error] values that
// log with their attributes.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
