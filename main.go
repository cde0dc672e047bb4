package main

import "github.com/loeliger/clixon/cmd"

func main() {
	cmd.Execute()
}
