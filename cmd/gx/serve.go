package main

import (
	"fmt"
	"time"

	"github.com/amonks/guidex/internal/logging"
	"github.com/amonks/guidex/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard as an HTTP JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveAddr string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the signed-in owner",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var tokenTTL time.Duration

func init() {
	rootCmd.AddCommand(serveCmd, tokenCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Token lifetime (0 for no expiry)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	owner, email, err := a.account()
	if err != nil {
		return err
	}
	if owner == "" && a.cfg.Server.JWTSecret == "" {
		return fmt.Errorf("sign in with gx login or set [server] jwt-secret before serving")
	}

	ctx := cmd.Context()
	s, err := a.openStore(ctx, false)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.Tee(a.logger, cmd.ErrOrStderr(), level)

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server := web.NewServer(web.Options{
		Store:          s,
		Insight:        a.insightService(ctx),
		Timer:          a.timer(),
		Owner:          owner,
		Email:          email,
		JWTSecret:      a.cfg.Server.JWTSecret,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Categories:     a.cfg.GoalCategories(),
		Settings:       a.settings(),
		Logger:         logger,
	})
	return server.ListenAndServe(ctx, addr)
}

func runToken(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if a.cfg.Server.JWTSecret == "" {
		return fmt.Errorf("[server] jwt-secret is not configured")
	}
	owner, _, err := a.account()
	if err != nil {
		return err
	}
	token, err := web.IssueToken(a.cfg.Server.JWTSecret, owner, tokenTTL, now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
