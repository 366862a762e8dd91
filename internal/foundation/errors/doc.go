// Package errors provides classified errors for the theme and its build host.
//
// A ClassifiedError carries a category, a severity and a transient flag so that
// callers (the CLI in particular) can decide how to present a failure without
// string matching. Hard configuration problems are CategoryConfig/SeverityFatal;
// soft problems are never returned as errors and go through the diag package.
package errors
