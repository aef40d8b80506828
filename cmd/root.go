package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visualizer",
		Short: "Room scene visualizer with AI-generated interior imagery",
		Long: `Visualizer generates photorealistic room-interior images for a chosen
design style, architect and designer reference, color palette and quality tier.

It serves a JSON API for batch generation requests and a gallery of past
generation sessions backed by durable image storage.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())

	return cmd
}
