// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bonial-oss/cvss-calc/cmd"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	err := cmd.NewRootCommand().Execute()
	if err == nil {
		return 0
	}

	var exitErr *cmd.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "cvss-calc: %v\n", err)
		return 2
	}
	if exitErr.Message != "" {
		fmt.Fprintf(os.Stderr, "cvss-calc: %s\n", exitErr.Message)
	}
	return exitErr.Code
}
