/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Prints the identity of the stored session.",
	Long:  `Prints the display name and user id of the restored session, if any.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		identity := sessionStore.Current()
		if identity == nil {
			fmt.Println("not logged in")
			return
		}
		fmt.Printf("%s (%s)\n", identity.DisplayName, identity.UserID)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
