package commands

import (
	"context"
	"fmt"

	"github.com/chefchat/chefchat/internal/config"
	"github.com/chefchat/chefchat/internal/store"
	"github.com/spf13/cobra"
)

// NewWipeCmd creates the wipe command
func NewWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all stored records",
		Long:  "Delete every persisted record: shopping lists, week plans, preferences and the current recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to wipe without --yes")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			kv, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer closeStore(kv)

			if err := store.Wipe(context.Background(), kv); err != nil {
				return fmt.Errorf("failed to wipe store: %w", err)
			}

			fmt.Println("✓ All records deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion of all records")

	return cmd
}
