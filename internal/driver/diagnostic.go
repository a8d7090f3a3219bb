package driver

import (
	"fmt"
)

// Diagnostic is a build failure with the one-line message shown to the user.
type Diagnostic struct {
	Message string
	Err     error
}

func (d *Diagnostic) Error() string { return d.Message }

func (d *Diagnostic) Unwrap() error { return d.Err }

func diagnose(err error, format string, args ...any) *Diagnostic {
	return &Diagnostic{Message: fmt.Sprintf(format, args...), Err: err}
}

const (
	msgInvalidOrder  = "Tree order must be between 2 and 1,000,000"
	msgUnreadable    = "Cannot read vector file: '%s'"
	msgMalformed     = "Malformed vector file '%s': %v"
	msgInsertFailed  = "Cannot build tree from '%s': %v"
	msgWriteFailed   = "Cannot write tree file: '%s'"
	msgCatalogFailed = "Cannot write catalog: '%s'"
	usageFormat      = "Usage:%s <[build | unittest]> <in_file> <tree_order> <outfile>\n"
)
