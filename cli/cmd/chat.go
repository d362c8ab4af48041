/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/utkarsh-90/Axum-Chat-Service/client/directory"
	"github.com/utkarsh-90/Axum-Chat-Service/client/domain"
	"github.com/utkarsh-90/Axum-Chat-Service/client/stream"
)

var chatCmd = &cobra.Command{
	Use:   "chat [room_id]",
	Short: "Opens the live message stream for a room in a tview interface",
	Long: `Opens the live message stream for a room. Without an argument the
room selection policy applies: a room id passed via --room wins if it
exists, otherwise the first room in server order is opened.
You can type messages at the bottom and see the stream above.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !requireIdentity() {
			return
		}
		requested, _ := cmd.Flags().GetString("room")

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		dir := directory.New(apiClient, *sessionStore.Current())
		dir.RequestRoom(resolveRoomRef(requested))
		if err := dir.Load(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading rooms: %v\n", err)
			os.Exit(1)
		}
		if len(args) == 1 {
			if !dir.Select(resolveRoomRef(args[0])) {
				fmt.Fprintf(os.Stderr, "Unknown room id: %s\n", args[0])
				os.Exit(1)
			}
		}
		if dir.Selected() == "" {
			fmt.Fprintln(os.Stderr, "No rooms available. Create one with 'chatctl mkroom <name>'.")
			os.Exit(1)
		}

		// Become a member before opening the stream; rooms created by
		// other users are open to everyone.
		if _, err := apiClient.JoinRoom(ctx, *sessionStore.Current(), dir.Selected()); err != nil {
			fmt.Fprintf(os.Stderr, "Error joining room: %v\n", err)
			os.Exit(1)
		}

		if err := runChatUI(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Chat UI error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("room", "r", "", "Room id to prefer when no argument is given (deep link)")
}

// resolveRoomRef accepts either a bare room id or a shareable link
// carrying a "#room=<id>" fragment.
func resolveRoomRef(ref string) string {
	if i := strings.Index(ref, "#"); i >= 0 {
		return directory.ParseRoomFragment(ref[i:])
	}
	return ref
}

func runChatUI(dir *directory.Directory) error {
	identity := sessionStore.Current()

	app := tview.NewApplication()

	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true).
		ScrollToEnd()

	inputField := tview.NewInputField().
		SetLabel(identity.DisplayName + " ❯❯ ").
		SetFieldWidth(0).
		SetAcceptanceFunc(tview.InputFieldMaxLength(4096))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, false).
		AddItem(inputField, 1, 0, true)

	app.SetRoot(flex, true).SetFocus(inputField)

	var controller *stream.Controller
	controller = stream.NewController(stream.WebsocketDialer{}, wsURL, func() {
		app.QueueUpdateDraw(func() {
			renderStream(textView, controller)
		})
	})
	defer controller.Close()

	controller.Reconcile(identity, dir.Selected())

	inputField.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := strings.TrimSpace(inputField.GetText())
		if text == "" {
			return
		}
		// No local echo: the message shows up when the server streams it back.
		controller.Send(text)
		inputField.SetText("")
	})

	// Close the stream and exit on Ctrl+C.
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			controller.Close()
			app.Stop()
			return nil
		}
		return event
	})

	return app.Run()
}

// renderStream redraws the whole view from a snapshot. The log is
// session-scoped and clears on every reconnect, so rebuilding is both
// simple and correct.
func renderStream(textView *tview.TextView, controller *stream.Controller) {
	messages, status, errMsg := controller.Snapshot()

	textView.Clear()
	fmt.Fprintf(textView, "[yellow]status: %s\n", status)
	if errMsg != "" {
		fmt.Fprintf(textView, "[red]%s\n", errMsg)
	}
	for _, msg := range messages {
		switch msg.Kind {
		case domain.KindSystem:
			fmt.Fprintf(textView, "[grey][%s] * %s %s\n",
				msg.CreatedAt.Format("15:04:05"), msg.SenderName, msg.Content)
		default:
			fmt.Fprintf(textView, "[white][%s] [blue]%s[white]: %s\n",
				msg.CreatedAt.Format("15:04:05"), msg.SenderName, msg.Content)
		}
	}
	textView.ScrollToEnd()
}
