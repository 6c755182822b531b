package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/srvenv/internal/client"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool
	actor      string

	svClient client.Client
)

func defaultActor() string {
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "unknown"
}

func defaultServerURL() string {
	if s := os.Getenv("SRVENV_URL"); s != "" {
		return s
	}
	if p := loadProfile(); p.URL != "" {
		return p.URL
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("SRVENV_TOKEN"); s != "" {
		return s
	}
	return loadProfile().Token
}

var rootCmd = &cobra.Command{
	Use:   "sv <command>",
	Short: "CLI client for the srvenv record service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		svClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if svClient != nil {
			svClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", defaultServerURL(), "server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "actor name for created_by fields")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
