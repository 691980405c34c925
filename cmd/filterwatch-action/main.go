package main

import "github.com/sapphires-iaq/filterwatch/cmd/filterwatch-action/cmd"

func main() {
	cmd.Execute()
}
