package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/groblegark/srvenv/internal/model"
)

var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage record type definitions",
}

var typeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered record types",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := svClient.ListTypes(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(defs)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFIELDS\tENV FIELDS")
		for _, d := range defs {
			fmt.Fprintf(w, "%s\t%d\t%d\n", d.Name, len(d.Fields), len(d.EnvFields))
		}
		w.Flush()
		return nil
	},
}

var typeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one type definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := svClient.GetType(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(def)
			return nil
		}
		printTypeDef(def)
		return nil
	},
}

// tomlTypeDef mirrors model.TypeDef for the TOML definition files fed to
// "type apply".
type tomlTypeDef struct {
	Name          string            `toml:"name"`
	SectionPrefix string            `toml:"section_prefix"`
	Fields        []tomlFieldDef    `toml:"fields"`
	EnvFields     map[string]string `toml:"env_fields"`
}

type tomlFieldDef struct {
	Name     string   `toml:"name"`
	Type     string   `toml:"type"`
	Required bool     `toml:"required"`
	Values   []string `toml:"values"`
}

var typeApplyFile string

var typeApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Register or replace a type definition from a TOML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var td tomlTypeDef
		if _, err := toml.DecodeFile(typeApplyFile, &td); err != nil {
			return fmt.Errorf("decode %s: %w", typeApplyFile, err)
		}

		def := &model.TypeDef{
			Name:          td.Name,
			SectionPrefix: td.SectionPrefix,
		}
		for _, f := range td.Fields {
			def.Fields = append(def.Fields, model.FieldDef{
				Name:     f.Name,
				Type:     model.FieldType(f.Type),
				Required: f.Required,
				Values:   f.Values,
			})
		}
		if len(td.EnvFields) > 0 {
			def.EnvFields = make(map[string]model.Getter, len(td.EnvFields))
			for name, getter := range td.EnvFields {
				def.EnvFields[name] = model.Getter(getter)
			}
		}

		out, err := svClient.SetType(cmd.Context(), def)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(out)
			return nil
		}
		fmt.Printf("Applied %s\n", out.Name)
		return nil
	},
}

var typeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a type definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svClient.DeleteType(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	typeApplyCmd.Flags().StringVarP(&typeApplyFile, "file", "f", "", "TOML type definition file (required)")
	_ = typeApplyCmd.MarkFlagRequired("file")

	typeCmd.AddCommand(typeListCmd)
	typeCmd.AddCommand(typeShowCmd)
	typeCmd.AddCommand(typeApplyCmd)
	typeCmd.AddCommand(typeDeleteCmd)
}
