// Command almanac runs seed values through an almanac's remapping stages.
//
// Usage:
//
//	almanac [input]                 print single-mode and range-mode minimums
//	almanac solve [input] --db DB   same, recording the runs
//	almanac trace [input]           per-stage trace
//	almanac validate [input]        parse and check rule preconditions
//	almanac test <scenarios-dir>    run YAML scenarios
//	almanac history --db DB         list recorded runs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/almanac/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	code := cli.GetExitCode(err)
	stop()
	os.Exit(code)
}
