package main

import (
	"os"

	"github.com/productbrew/fnbundle/internal/cli"
	"github.com/productbrew/fnbundle/pkg/ui"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := cli.Execute(rootCmd); err != nil {
		ui.NewPrinter(os.Stdout, cli.OutputFormat(rootCmd)).Error(err)
		os.Exit(1)
	}
}
