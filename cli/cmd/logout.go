/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clears the stored session.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sessionStore.Logout()
		fmt.Println("Logged out.")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
