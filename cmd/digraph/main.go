package main

import "github.com/DrSkyle/digraph/cmd/digraph/commands"

func main() {
	commands.Execute()
}
