// Command alimah is a terminal chat client for a bilingual mental-health support assistant.
package main

import "github.com/diogo/alimah/internal/commands"

func main() {
	commands.Execute()
}
