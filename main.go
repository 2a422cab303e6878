package main

import "github.com/cudabot/octobot/cmd"

func main() {
	cmd.Execute()
}
