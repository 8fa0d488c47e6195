// Package errors defines error types for the analysis CLI invocation layer.
//
// This package provides structured error types that wrap the different failure
// scenarios when driving the analysis CLI. All error types support error
// unwrapping and can be checked using errors.Is, errors.As, and errors.AsType.
package errors
