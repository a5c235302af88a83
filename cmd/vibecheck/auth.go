package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"vibecheck/internal/github"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the GitHub token in the OS credential store",
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store a GitHub Personal Access Token",
	Long: `Store a GitHub Personal Access Token in the OS credential store.
The token is read from stdin so it never appears in shell history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprint(cmd.OutOrStdout(), "Paste token: ")
		reader := bufio.NewReader(os.Stdin)
		token, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}

		cm := github.NewCredentialManager()
		if err := cm.StoreToken(strings.TrimSpace(token)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token source would be used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		cm := github.NewCredentialManager()

		switch {
		case os.Getenv("GITHUB_TOKEN") != "":
			fmt.Fprintln(out, "Using GITHUB_TOKEN from the environment.")
		case cm.HasToken():
			fmt.Fprintln(out, "Using the token from the OS credential store.")
		default:
			fmt.Fprintln(out, "No token configured. Public repositories only, with a low rate limit.")
		}
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored GitHub token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := github.NewCredentialManager().DeleteToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetTokenCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)
}
