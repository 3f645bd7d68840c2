package main

import "github.com/foogie-app/foogie/cmd"

func main() {
	cmd.Execute()
}
