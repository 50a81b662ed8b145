package main

import (
	"fmt"
	"time"

	"github.com/ams/backend/internal/infrastructure/auth"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenRoles   []string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a service access token",
	Long: `Mint a signed access token for automation such as ingest scripts
or the public catalog frontend. The token is signed with the configured
JWT secret and flagged as a service token.`,
	Example: `  amsctl token --subject ingest-bot --role archivist --ttl 720h`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWT.ServiceTokenExpiration
		}
		token, err := auth.NewJWTService(cfg.JWT).GenerateToken(auth.GenerateTokenInput{
			Subject:  tokenSubject,
			Username: tokenSubject,
			Roles:    tokenRoles,
			Service:  true,
			TTL:      ttl,
		})
		if err != nil {
			return err
		}
		return printResult(cmd, token, func() {
			fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
		})
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject, e.g. the client name")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", []string{auth.RoleArchivist}, "roles carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default: jwt.service_token_expiration)")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}
