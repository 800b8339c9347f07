package main

import (
	"fmt"
	"strings"

	"github.com/amonks/guidex/internal/state"
	"github.com/amonks/guidex/store"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <owner>",
	Short: "Sign in as an owner on this device",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var loginEmail string

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out on this device",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in owner",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email used to derive the default profile name")
}

func runLogin(cmd *cobra.Command, args []string) error {
	owner := strings.TrimSpace(args[0])
	if owner == "" {
		return store.ErrAuth
	}
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if err := a.state.Set(map[string]string{
		state.KeyOwner: owner,
		state.KeyEmail: strings.TrimSpace(loginEmail),
	}); err != nil {
		return err
	}

	board, err := a.openBoard(cmd.Context(), false)
	if err != nil {
		return err
	}
	task := board.EnsureProfile(cmd.Context())
	prof, err := task.Wait()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", owner, prof.Name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if err := a.state.Delete(state.KeyOwner, state.KeyEmail); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	owner, email, err := a.account()
	if err != nil {
		return err
	}
	if owner == "" {
		return store.ErrAuth
	}
	if email != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", owner, email)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), owner)
	return nil
}
