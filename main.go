package main

import "trivia-finder/commands"

func main() {
	commands.Execute()
}
