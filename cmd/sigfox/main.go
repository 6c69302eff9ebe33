package main

import (
	"os"

	"github.com/nightswinger/sigfox-cli/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
