// Package driver dispatches the ktree command line among the build, unittest
// and usage modes and maps failures to diagnostics and exit codes.
//
// A build runs load, split, sniff, parse-all, insert-all and serialize in
// that order. Any failure prints one diagnostic line to stdout, exits with 1
// and leaves the output path untouched.
package driver
