package main

import (
	"os"

	"github.com/sccbd/catalog-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
