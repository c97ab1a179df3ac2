package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "productctl",
		Short:         "Import and inspect product inventory files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newImportCmd(), newClassifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
