// Package main is the entry point for the snapback CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/snapback/cmd/snapback/commands"
	"github.com/thoreinstein/snapback/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintln(os.Stderr, exitErr.Suggestion)
	}
	os.Exit(errors.Code(err))
}
