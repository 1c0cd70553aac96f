package main

import "finboard/internal/commands"

func main() {
	commands.Execute()
}
