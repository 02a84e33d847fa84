package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/chefchat/chefchat/internal/config"
	"github.com/chefchat/chefchat/internal/logger"
	"github.com/chefchat/chefchat/internal/services/ai"
	"github.com/spf13/cobra"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	var checkAI bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test backend connectivity",
		Long:  "Ping the configured store and optionally the AI provider",
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

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := kv.Ping(ctx); err != nil {
				return fmt.Errorf("store ping failed: %w", err)
			}
			fmt.Printf("✓ Store reachable (%s)\n", cfg.StoreBackend)

			if !checkAI {
				return nil
			}

			zapLogger, err := logger.NewDevelopmentLogger(false)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			provider := ai.NewOpenAIProviderWithLogger(
				cfg.OpenAIKey,
				cfg.AIBaseURL,
				cfg.AIModel,
				time.Duration(cfg.AITimeoutSecs)*time.Second,
				zapLogger,
				false,
			)

			result, err := provider.ClassifyCookingRelated(ctx, "pasta with tomatoes")
			if err != nil {
				return fmt.Errorf("AI provider check failed: %w", err)
			}
			fmt.Printf("✓ AI provider reachable (cooking classification: %t)\n", result.IsCookingRelated)

			return nil
		},
	}

	cmd.Flags().BoolVar(&checkAI, "ai", false, "Also test AI provider connectivity")

	return cmd
}
