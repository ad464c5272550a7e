package cli

import (
	"fmt"
	"hiroonarita/practice-planner/internal/config"
	"hiroonarita/practice-planner/internal/domain"
	"hiroonarita/practice-planner/internal/service"
	"time"

	"github.com/spf13/cobra"
)

func keyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage store access keys",
	}
	cmd.AddCommand(keyMintCmd(opts))
	return cmd
}

func keyMintCmd(opts *rootOptions) *cobra.Command {
	var (
		role       string
		label      string
		expiration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint an access key signed with the server's secret",
		Long: `Mint an access key signed with jwt.secret (env JWT_SECRET).

Run this where the server's configuration lives. Coach keys read drafts and
publish; player keys read published plans and submit reflections.`,
		Example: `  planctl key mint --role coach --label "Coach Tanaka"
  planctl key mint --role player --label hawks-tablet --expiration 168h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return &config.ConfigurationError{Key: "jwt.secret"}
			}
			if !cmd.Flags().Changed("expiration") {
				expiration = cfg.JWT.Expiration
			}

			key, err := service.NewAccessService(cfg.JWT.Secret, expiration).MintKey(domain.Role(role), label)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "coach or player")
	cmd.Flags().StringVar(&label, "label", "", "Who or what the key is for")
	cmd.Flags().DurationVar(&expiration, "expiration", 0, "Lifetime, 0 for no expiry (default: jwt.expiration)")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
