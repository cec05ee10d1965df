package main

import (
	"os"

	"github.com/baaaaaaaka/xword-builder/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
