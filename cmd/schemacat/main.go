package main

import "github.com/earth-metabolome-initiative/schemacat/internal/cli"

func main() {
	cli.Execute()
}
