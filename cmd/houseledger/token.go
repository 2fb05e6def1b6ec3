package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/server"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API access token",
		Long: `Sign a bearer token with the configured auth secret. There is no
user store; whoever holds the secret can mint tokens.`,
		RunE: runToken,
	}

	cmd.Flags().String("subject", "admin", "token subject claim")
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := viper.GetString("auth.secret")
	if secret == "" {
		return fmt.Errorf("%w: auth.secret", common.ErrMissingConfig)
	}

	subject, _ := cmd.Flags().GetString("subject")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := server.GenerateToken(subject, []byte(secret), ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	cmd.Println(token)
	return nil
}
