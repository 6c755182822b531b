package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect the server's environment configuration",
}

var envSectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List configuration sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := svClient.ListSections(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(sections)
			return nil
		}
		for _, s := range sections {
			fmt.Println(s)
		}
		return nil
	},
}

var envShowCmd = &cobra.Command{
	Use:   "show <section>",
	Short: "Show a section's entries (secrets masked)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := svClient.GetSection(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(values)
			return nil
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\n", k, values[k])
		}
		w.Flush()
		return nil
	},
}

var envReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Re-read the server's configuration sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := svClient.ReloadEnv(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Reloaded (%d sections)\n", n)
		return nil
	},
}

func init() {
	envCmd.AddCommand(envSectionsCmd)
	envCmd.AddCommand(envShowCmd)
	envCmd.AddCommand(envReloadCmd)
}
