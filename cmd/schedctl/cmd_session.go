package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/arnavshah/shift-roster-ai/pkg/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Session secret and cookie helpers",
}

var sessionSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Print a random value for SESSION_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "SESSION_SECRET=%s\n", hex.EncodeToString(buf))
		return nil
	},
}

var sessionTokenCmd = &cobra.Command{
	Use:   "token <sessionID>",
	Short: "Sign a session cookie for an id with SESSION_SECRET",
	Long: `Prints a value for the roster_session cookie, handy for curl sessions
against a running server that shares the same SESSION_SECRET.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SessionSecret == "" {
			return errors.New("SESSION_SECRET not found in environment or .env")
		}
		m, err := session.NewManager(cfg.SessionSecret, cfg.SessionMaxIdle)
		if err != nil {
			return err
		}
		token, err := m.Sign(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed cookie for %s:\n%s=%s\n", args[0], session.CookieName, token)
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionSecretCmd, sessionTokenCmd)
}
