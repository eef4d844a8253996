// Package commands defines the splitbill CLI and wires dependencies for subcommands.
//
// Commands
//
//   - new    Walk through the wizard and print the split and a share link
//   - calc   Compute a split from a YAML session file
//   - open   Show a shared split read-only from its link or token
//
// # Implementation
//
// The root command loads .env, parses and validates the environment
// configuration and sets up logging before any subcommand runs, so handlers
// share one app context. Output goes to the command's writer; logs go to
// stderr.
package commands
