package main

import "skusync/cmd/skusync/cmd"

func main() {
	cmd.Execute()
}
