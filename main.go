package main

import "github.com/arznote/arznote/cmd"

func main() {
	cmd.Execute()
}
