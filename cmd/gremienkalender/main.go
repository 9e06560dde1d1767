package main

import "github.com/elchenberg/gremienkalender/internal/cli"

func main() {
	cli.Execute()
}
