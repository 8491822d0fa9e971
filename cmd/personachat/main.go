// Command personachat is a terminal client for a persona-driven chatbot backend.
package main

import "github.com/diogo/personachat/internal/commands"

func main() {
	commands.Execute()
}
