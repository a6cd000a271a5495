package main

import "tugisline/cmd/tugis/cmd"

func main() {
	cmd.Execute()
}
