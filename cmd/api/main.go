package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "widgetry",
		Short:         "Render PrimeFaces widgets and serve the widget API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding widgetry.yaml")

	root.AddCommand(newServeCommand(&configDir))
	root.AddCommand(newRenderCommand(&configDir))
	return root
}
