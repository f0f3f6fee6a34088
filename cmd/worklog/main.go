package main

import "github.com/dori/worklog/cmd/worklog/commands"

func main() {
	commands.Execute()
}
