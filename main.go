package main

import "github.com/kozaktomas/face-orchestrator/cmd"

func main() {
	cmd.Execute()
}
