package main

import "foodgram/commands"

func main() {
	commands.Execute()
}
