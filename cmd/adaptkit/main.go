// adaptkit resolves artifact adapters over a variants model and extracts
// the elements they recognize.
//
// Usage:
//
//	adaptkit adapters
//	adaptkit resolve <model.yaml|dir>
//	adaptkit extract <model.yaml|dir> [--format=text|json|yaml] [--db=<path>] [--no-save] [--watch]
//	adaptkit runs [--limit=N]
//	adaptkit show <run-id> [--format=text|json|yaml]
//	adaptkit serve [--addr=:3000] [--db=<path>]
//	adaptkit config show|init
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
