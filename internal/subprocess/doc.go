// Package subprocess runs the analysis CLI as a child process.
//
// Each run writes its command line to the output sink and streams both output
// streams there as they arrive. Only a bounded tail of standard error is kept
// for diagnostics. A non-zero exit becomes an InvocationError.
package subprocess
