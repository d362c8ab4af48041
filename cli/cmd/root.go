/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/utkarsh-90/Axum-Chat-Service/client/api"
	"github.com/utkarsh-90/Axum-Chat-Service/client/session"
)

var (
	cfgFile      string
	serverURL    string
	wsURL        string
	apiClient    *api.Client
	sessionStore *session.Store
)

const (
	serverURLKey   = "server_url"
	wsURLKey       = "ws_url"
	sessionFileKey = "session_file"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Terminal client for the chat service",
	Long: `chatctl is a terminal client for the chat service. It signs in against
the credential service, lists and creates rooms, and opens a live
message stream for the selected room.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// serverURL and wsURL are loaded by initConfig before this runs.
		apiClient = api.NewClient(serverURL)
		sessionStore = session.NewStore(apiClient, session.NewFileStorage(sessionFilePath()))
		sessionStore.Restore()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// one‑shot
	if len(os.Args) > 1 {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	// REPL
	fmt.Println("entering interactive mode, type 'exit' to quit")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("❯❯❯ ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		args, _ := shellwords.Parse(line)
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
			return
		}
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chatctl.yaml)")
	rootCmd.PersistentFlags().String("server", "http://127.0.0.1:8080", "Base URL of the chat HTTP API")
	rootCmd.PersistentFlags().String("ws", "", "Base URL of the websocket endpoint (defaults to the server URL with ws scheme)")
	rootCmd.PersistentFlags().String("session-file", "", "Path of the persisted session record")

	viper.BindPFlag(serverURLKey, rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag(wsURLKey, rootCmd.PersistentFlags().Lookup("ws"))
	viper.BindPFlag(sessionFileKey, rootCmd.PersistentFlags().Lookup("session-file"))
	viper.SetDefault(serverURLKey, "http://127.0.0.1:8080")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chatctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".chatctl")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}

	serverURL = viper.GetString(serverURLKey)
	wsURL = viper.GetString(wsURLKey)
	if wsURL == "" {
		wsURL = deriveWsURL(serverURL)
	}
}

// deriveWsURL maps the HTTP base to the websocket base so most setups
// only configure one address.
func deriveWsURL(httpBase string) string {
	switch {
	case strings.HasPrefix(httpBase, "https://"):
		return "wss://" + strings.TrimPrefix(httpBase, "https://")
	case strings.HasPrefix(httpBase, "http://"):
		return "ws://" + strings.TrimPrefix(httpBase, "http://")
	default:
		return httpBase
	}
}

func sessionFilePath() string {
	if p := viper.GetString(sessionFileKey); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatctl-session.json"
	}
	return filepath.Join(home, ".chatctl-session.json")
}

// requireIdentity is shared by every command that talks to the room or
// stream services.
func requireIdentity() bool {
	if sessionStore.Current() == nil {
		fmt.Fprintln(os.Stderr, "not logged in, run 'chatctl login' or 'chatctl register' first")
		return false
	}
	return true
}
