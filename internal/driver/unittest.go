package driver

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/ktree/ingest"
	"github.com/viant/ktree/internal/ktree"
)

type selfTest struct {
	name string
	run  func() error
}

var selfTests = []selfTest{
	{name: "ingest", run: ingest.SelfTest},
	{name: "object", run: ktree.ObjectSelfTest},
	{name: "tree", run: ktree.TreeSelfTest},
}

// Unittest runs the built-in self tests, printing one line per test. It
// returns 0 when every test passes and 1 otherwise.
func (d *Driver) Unittest(ctx context.Context, stdout io.Writer) int {
	return d.runSelfTests(ctx, stdout, selfTests)
}

func (d *Driver) runSelfTests(ctx context.Context, stdout io.Writer, tests []selfTest) int {
	failed := 0
	for _, test := range tests {
		if err := test.run(); err != nil {
			failed++
			d.logger.ErrorContext(ctx, "self test failed", "test", test.name, "error", err)
			fmt.Fprintf(stdout, "FAIL %s: %v\n", test.name, err)
			continue
		}
		fmt.Fprintf(stdout, "ok   %s\n", test.name)
	}
	if failed > 0 {
		return 1
	}
	return 0
}
