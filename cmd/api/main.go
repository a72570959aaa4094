package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "colortherapy-api",
		Short:        "Colour therapy clinical records API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedConfigCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func seedConfigCmd() *cobra.Command {
	var owners []string
	var force bool

	cmd := &cobra.Command{
		Use:   "seed-config",
		Short: "Write the default pages and role permissions into the app-config collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedConfig(cmd.Context(), owners, force)
		},
	}
	cmd.Flags().StringSliceVar(&owners, "owner", nil, "email of a protected account (repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")
	return cmd
}
