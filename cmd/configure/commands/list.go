package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strategiclayer/api/internal/config"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the effective service configuration",
		Long:  "Print the configuration the server and worker would run with, secrets omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Println("Effective configuration:")
			fmt.Printf("  Server port:       %s\n", cfg.ServerPort)
			fmt.Printf("  Frontend URL:      %s\n", cfg.FrontendURL)
			fmt.Printf("  Default mode:      %s\n", cfg.DefaultMode)
			fmt.Printf("  RabbitMQ prefetch: %d\n", cfg.RabbitMQPrefetch)
			fmt.Printf("  OTEL enabled:      %t\n", cfg.OTELEnabled)
			if cfg.OTELEnabled {
				fmt.Printf("  OTEL endpoint:     %s\n", cfg.OTELEndpoint)
			}
			fmt.Printf("  Server debug:      %t\n", cfg.ServerDebugMode)
			fmt.Printf("  Worker debug:      %t\n", cfg.WorkerDebugMode)
			return nil
		},
	}

	return cmd
}
