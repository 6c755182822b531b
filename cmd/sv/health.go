package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svClient.Health(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}
