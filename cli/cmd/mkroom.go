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

	"github.com/utkarsh-90/Axum-Chat-Service/client/directory"
)

// mkroomCmd represents the mkroom command
var mkroomCmd = &cobra.Command{
	Use:   "mkroom <name>",
	Short: "Creates a new room.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireIdentity() {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		dir := directory.New(apiClient, *sessionStore.Current())
		room, err := dir.Create(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating room: %v\n", err)
			return
		}
		fmt.Printf("Created room %s (%s)\n", room.Name, room.ID)
	},
}

func init() {
	rootCmd.AddCommand(mkroomCmd)
}
