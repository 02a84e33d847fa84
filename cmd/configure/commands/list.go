package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/chefchat/chefchat/internal/config"
	"github.com/chefchat/chefchat/internal/store"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Long:  "List every persisted record key and its size, optionally dumping the raw JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			kv, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer closeStore(kv)

			ctx := context.Background()
			for _, key := range store.Keys {
				value, err := kv.Get(ctx, key)
				if errors.Is(err, store.ErrNotFound) {
					fmt.Printf("  - %s: (empty)\n", key)
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", key, err)
				}
				fmt.Printf("  - %s: %d bytes\n", key, len(value))
				if raw {
					fmt.Printf("    %s\n", value)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Dump raw record JSON")

	return cmd
}
