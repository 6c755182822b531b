package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/groblegark/srvenv/internal/client"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Manage records",
}

var (
	recordListType  string
	recordListName  string
	recordListLimit int
	recordListRaw   bool
)

var recordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := svClient.ListRecords(cmd.Context(), &client.ListRecordsRequest{
			Type:  recordListType,
			Name:  recordListName,
			Limit: recordListLimit,
			Raw:   recordListRaw,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp.Records)
			return nil
		}
		printRecordTable(resp.Records, resp.Total)
		return nil
	},
}

var recordShowRaw bool

var recordShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record with its resolved field values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := svClient.GetRecord(cmd.Context(), args[0], recordShowRaw)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(rec)
			return nil
		}
		printRecord(rec)
		return nil
	},
}

var (
	recordCreateType  string
	recordCreateName  string
	recordCreateAttrs []string
)

var recordCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a record",
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parseAttrFlags(recordCreateAttrs)
		if err != nil {
			return err
		}
		rec, err := svClient.CreateRecord(cmd.Context(), &client.CreateRecordRequest{
			Type:      recordCreateType,
			Name:      recordCreateName,
			Attrs:     attrs,
			CreatedBy: actor,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(rec)
			return nil
		}
		fmt.Printf("Created %s\n", rec.ID)
		return nil
	},
}

var setDefaultPrompt bool

var recordSetDefaultCmd = &cobra.Command{
	Use:   "set-default <id> <field> [value]",
	Short: "Set the stored fallback for an env-backed field",
	Long: `Set the stored fallback used when the environment configuration has no
entry for the field. With --prompt the value is read from the terminal
without echo, for credentials that should not land in shell history.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, field := args[0], args[1]

		var raw string
		switch {
		case setDefaultPrompt:
			fmt.Fprintf(os.Stderr, "Value for %s: ", field)
			data, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("reading value: %w", err)
			}
			raw = string(data)
		case len(args) == 3:
			raw = args[2]
		default:
			return fmt.Errorf("provide a value or use --prompt")
		}

		shadow := field
		if !strings.HasSuffix(shadow, "_env_default") {
			shadow += "_env_default"
		}

		rec, err := svClient.UpdateRecord(cmd.Context(), id, &client.UpdateRecordRequest{
			EnvDefaults: map[string]any{shadow: coerceScalar(raw)},
			Actor:       actor,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(rec)
			return nil
		}
		fmt.Printf("Updated %s\n", rec.ID)
		return nil
	},
}

var recordCopyCmd = &cobra.Command{
	Use:   "copy <id> <new-name>",
	Short: "Duplicate a record under a new name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := svClient.CopyRecord(cmd.Context(), args[0], args[1], actor)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(rec)
			return nil
		}
		fmt.Printf("Created %s\n", rec.ID)
		return nil
	},
}

var recordDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svClient.DeleteRecord(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var recordEventsCmd = &cobra.Command{
	Use:   "events <id>",
	Short: "Show the audit events of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := svClient.GetEvents(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(list)
			return nil
		}
		for _, e := range list {
			fmt.Printf("%s  %s  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Topic, e.Actor)
		}
		return nil
	},
}

// parseAttrFlags turns repeated --attr key=value flags into an attrs map,
// coercing obvious scalars.
func parseAttrFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid attr %q (want key=value)", p)
		}
		attrs[k] = coerceScalar(v)
	}
	return attrs, nil
}

// coerceScalar maps flag strings onto JSON scalar types: booleans and
// integers are common for env-backed fields, everything else stays a string.
// Wrapping a value in double quotes skips coercion, so string-typed fields
// can hold values like "123" or "true".
func coerceScalar(v string) any {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	if b, err := strconv.ParseBool(v); err == nil && (v == "true" || v == "false") {
		return b
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func init() {
	recordListCmd.Flags().StringVar(&recordListType, "type", "", "filter by record type")
	recordListCmd.Flags().StringVar(&recordListName, "name", "", "filter by name substring")
	recordListCmd.Flags().IntVar(&recordListLimit, "limit", 50, "maximum records to return")
	recordListCmd.Flags().BoolVar(&recordListRaw, "raw", false, "skip env resolution, show stored values")

	recordShowCmd.Flags().BoolVar(&recordShowRaw, "raw", false, "skip env resolution, show stored values")

	recordCreateCmd.Flags().StringVar(&recordCreateType, "type", "", "record type (required)")
	recordCreateCmd.Flags().StringVar(&recordCreateName, "name", "", "display name (required)")
	recordCreateCmd.Flags().StringArrayVar(&recordCreateAttrs, "attr", nil, `field value as key=value (repeatable); quote the value ("123") to force a string`)
	_ = recordCreateCmd.MarkFlagRequired("type")
	_ = recordCreateCmd.MarkFlagRequired("name")

	recordSetDefaultCmd.Flags().BoolVar(&setDefaultPrompt, "prompt", false, "read the value from the terminal without echo")

	recordCmd.AddCommand(recordListCmd)
	recordCmd.AddCommand(recordShowCmd)
	recordCmd.AddCommand(recordCreateCmd)
	recordCmd.AddCommand(recordSetDefaultCmd)
	recordCmd.AddCommand(recordCopyCmd)
	recordCmd.AddCommand(recordDeleteCmd)
	recordCmd.AddCommand(recordEventsCmd)
}
