package main

import (
	"fmt"
	"os"

	"alcyxob/fittrack/cmd/fitlog/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
