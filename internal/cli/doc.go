// Package cli implements the imgaug command-line interface.
//
// # Commands
//
//   - list: registered augmentor classes and their config fields
//   - describe: build a pipeline file and print its description
//   - convert: rewrite a pipeline file as YAML, TOML or JSON
//   - run: augment an image, replaying the augmentation on a mask and points
//   - serve: run the MCP server over stdio
//   - version: print build information
//
// # Logging
//
// Every command accepts --verbose (-v) for debug-level logging. The logger
// travels through the command context and is also installed with
// augment.SetLogger.
//
// # Example
//
//	func main() {
//	    cli.SetVersion(version, commit, date)
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
