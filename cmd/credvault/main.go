package main

import (
	"os"

	"github.com/accountingops/credvault/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
