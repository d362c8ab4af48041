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

// roomsCmd represents the rooms command
var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Lists the rooms visible to the current session.",
	Long: `Lists the rooms visible to the current session. The room marked with
an asterisk is the one the chat command would open by default.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !requireIdentity() {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		dir := directory.New(apiClient, *sessionStore.Current())
		if err := dir.Load(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing rooms: %v\n", err)
			return
		}

		rooms := dir.Rooms()
		if len(rooms) == 0 {
			fmt.Println("No rooms yet. Create one with 'chatctl mkroom <name>'.")
			return
		}

		for _, room := range rooms {
			marker := " "
			if room.ID == dir.Selected() {
				marker = "*"
			}
			fmt.Printf("%s %s  %s  %s\n", marker, room.ID,
				room.CreatedAt.Format("2006-01-02 15:04"), room.Name)
		}
	},
}

func init() {
	rootCmd.AddCommand(roomsCmd)
}
