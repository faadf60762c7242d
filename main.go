package main

import (
	"os"

	"github.com/newsdesk-ai/newsdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
