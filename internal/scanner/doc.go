// Package scanner implements the analysis CLI invocation facade: one method
// per CLI subcommand.
//
// Every method follows the same sequence. Capability decisions append flags
// in a fixed order, the user's extra options for the command path are
// appended last, and the process runs. Some commands then parse their stdout
// as JSON, and the SARIF-producing commands repair their output for CLI
// versions with the invalid notifications defect. Nothing is retried.
package scanner
