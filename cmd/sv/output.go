package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/groblegark/srvenv/internal/model"
)

func printRecord(rec *model.Record) {
	fmt.Printf("ID:      %s\n", rec.ID)
	fmt.Printf("Type:    %s\n", rec.Type)
	fmt.Printf("Name:    %s\n", rec.Name)
	if len(rec.Attrs) > 0 {
		fmt.Println("Fields:")
		for _, k := range sortedKeys(rec.Attrs) {
			fmt.Printf("  %s: %v\n", k, rec.Attrs[k])
		}
	}
	if len(rec.EnvDefaults) > 0 {
		fmt.Println("Env defaults:")
		for _, k := range sortedKeys(rec.EnvDefaults) {
			fmt.Printf("  %s: %v\n", k, rec.EnvDefaults[k])
		}
	}
	if rec.CreatedBy != "" {
		fmt.Printf("Created By: %s\n", rec.CreatedBy)
	}
	fmt.Printf("Created At: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At: %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printRecordTable(records []*model.Record, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNAME\tUPDATED")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Type, r.Name, r.UpdatedAt.Format("2006-01-02"))
	}
	w.Flush()
	if total > len(records) {
		fmt.Printf("(%d of %d)\n", len(records), total)
	}
}

func printTypeDef(def *model.TypeDef) {
	fmt.Printf("Name: %s\n", def.Name)
	if def.SectionPrefix != "" {
		fmt.Printf("Section prefix: %s\n", def.SectionPrefix)
	}
	if len(def.Fields) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tTYPE\tREQUIRED\tENV GETTER")
		for _, f := range def.Fields {
			getter := ""
			if g, ok := def.EnvFields[f.Name]; ok {
				getter = g.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", f.Name, f.Type, f.Required, getter)
		}
		w.Flush()
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
