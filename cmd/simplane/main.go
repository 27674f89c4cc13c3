package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "simplane",
		Short: "2D real-time simulation kernel",
		Long: "simplane runs interactive 2D scenes: entities with attachable\n" +
			"behavior components, a parallel per-frame update scheduler and a\n" +
			"grid-accelerated collision subsystem.",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newBenchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
