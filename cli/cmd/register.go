/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Creates an account and stores the session.",
	Long: `Creates an account on the credential service. On success the issued
identity is persisted, exactly as with login.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, err := readPassword()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		identity, err := sessionStore.Register(ctx, args[0], password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
			return
		}
		fmt.Printf("Registered and logged in as %s\n", identity.DisplayName)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
