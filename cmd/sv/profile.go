package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Profile holds connection defaults for the CLI, read from
// ~/.config/srvenv/config.toml.
type Profile struct {
	URL   string `toml:"url"`
	Token string `toml:"token,omitempty"`
}

func profilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "srvenv", "config.toml"), nil
}

// Cached profile, loaded once per process.
var (
	profileOnce   sync.Once
	cachedProfile Profile
)

// loadProfile reads the profile file, returning an empty profile when the
// file is absent or unreadable.
func loadProfile() Profile {
	profileOnce.Do(func() {
		path, err := profilePath()
		if err != nil {
			return
		}
		if _, err := toml.DecodeFile(path, &cachedProfile); err != nil {
			cachedProfile = Profile{}
		}
	})
	return cachedProfile
}

// saveProfile writes the profile file with restrictive permissions since it
// may hold a token.
func saveProfile(p Profile) error {
	path, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage CLI connection defaults",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved connection defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := loadProfile()
		fmt.Printf("URL:   %s\n", p.URL)
		if p.Token != "" {
			fmt.Println("Token: (set)")
		} else {
			fmt.Println("Token: (not set)")
		}
		return nil
	},
}

var (
	profileSetURL   string
	profileSetToken string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save connection defaults for future invocations",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := loadProfile()
		if profileSetURL != "" {
			p.URL = profileSetURL
		}
		if profileSetToken != "" {
			p.Token = profileSetToken
		}
		if err := saveProfile(p); err != nil {
			return err
		}
		path, _ := profilePath()
		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileSetURL, "url", "", "server URL to save")
	profileSetCmd.Flags().StringVar(&profileSetToken, "token", "", "bearer token to save")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
