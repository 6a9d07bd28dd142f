package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strategiclayer/api/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "strategic-layer-configure",
		Short: "Configuration tool for the Strategic Layer API",
		Long:  "CLI tool for managing rate limits, bulk task import/export, and settings",
	}

	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewTasksCmd())
	rootCmd.AddCommand(commands.NewListCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
