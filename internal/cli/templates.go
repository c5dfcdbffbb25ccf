package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codegenie-labs/codegenie/internal/catalog"
	"github.com/codegenie-labs/codegenie/internal/config"
)

// templateEntry represents a domain template for display.
type templateEntry struct {
	Category    string `json:"category"`
	Subtype     string `json:"subtype"`
	Description string `json:"description"`
	Requires    string `json:"requires,omitempty"`
}

func newTemplatesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "templates [category]",
		Short: "List domain templates",
		Long: `List the built-in domain templates together with any found in the
configured templates directory (templates_dir).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary(config.Current())
			if err != nil {
				return err
			}

			categories := lib.Categories()
			if len(args) == 1 {
				if !lib.HasCategory(args[0]) {
					return fmt.Errorf("unknown template category %q (available: %v)", args[0], categories)
				}
				categories = []string{args[0]}
			}

			entries := templateEntries(lib, categories)
			if asJSON {
				return printTemplatesJSON(cmd, entries)
			}
			return printTemplatesTable(cmd, entries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func templateEntries(lib *catalog.Library, categories []string) []templateEntry {
	var entries []templateEntry
	for _, category := range categories {
		for _, subtype := range lib.Subtypes(category) {
			e, _ := lib.Entry(category, subtype)
			entries = append(entries, templateEntry{
				Category:    category,
				Subtype:     subtype,
				Description: e.Description,
				Requires:    e.Requires,
			})
		}
	}
	return entries
}

func printTemplatesTable(cmd *cobra.Command, entries []templateEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSUBTYPE\tREQUIRES\tDESCRIPTION")
	for _, e := range entries {
		requires := e.Requires
		if requires == "" {
			requires = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Category, e.Subtype, requires, e.Description)
	}
	return w.Flush()
}

func printTemplatesJSON(cmd *cobra.Command, entries []templateEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
