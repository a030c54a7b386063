package main

import (
	"github/pubterm/terminal-agent/cmd"
)

func main() {
	cmd.Execute()
}
