package main

import "github.com/agentic-research/jsxprops/cmd"

func main() {
	cmd.Execute()
}
