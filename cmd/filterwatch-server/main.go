package main

import "github.com/sapphires-iaq/filterwatch/cmd/filterwatch-server/cmd"

func main() {
	cmd.Execute()
}
