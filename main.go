package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/roomstudio/visualizer/cmd"
)

const version = "0.1.0"

func main() {
	root := cmd.NewRootCmd()

	// fang wraps the cobra root with styled help, shell completions and
	// a --version flag, and translates Interrupt/Kill into context cancel.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
