package main

import (
	"fmt"
	"os"

	"github.com/terraincognita07/lunalog/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lunalog:", err)
		os.Exit(1)
	}
}
