package main

import (
	"fmt"
	"ticketing-marketplace-backend/auth"
	"ticketing-marketplace-backend/config"
	"ticketing-marketplace-backend/model"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <identity>",
	Short: "Issue a bearer token for identity, signed with server.secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := auth.IssueToken(model.Identity(args[0]), viper.GetString(config.Secret), tokenTTL)
		if err != nil {
			return fmt.Errorf("token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Token lifetime")
}
