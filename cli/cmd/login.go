/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Signs in and stores the session.",
	Long: `Signs in against the credential service. On success the issued
identity is persisted, so later commands and restarts stay logged in.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, err := readPassword()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		identity, err := sessionStore.Login(ctx, args[0], password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
			return
		}
		fmt.Printf("Logged in as %s\n", identity.DisplayName)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
