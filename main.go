package main

import "nbkit/cmd"

func main() {
	cmd.Execute()
}
