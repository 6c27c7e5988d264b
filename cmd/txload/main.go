package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/fraudlab/txload/internal/cli"
	"github.com/fraudlab/txload/pkg/txload"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(txload.ExitPanic)
		}
	}()

	if os.Getenv("TXLOAD_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(txload.ExitCodeForError(err))
	}
}
