package main

import "github.com/darmiel/tokenkeep/cmd"

func main() {
	cmd.Execute()
}
