package main

import (
	"fmt"
	"os"

	"github.com/terraincognita07/cycletrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cycletrack:", err)
		os.Exit(1)
	}
}
