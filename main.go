package main

import (
	"os"

	"soulframe-lang/cli"
)

func main() {
	os.Exit(cli.Start())
}
