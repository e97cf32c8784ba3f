package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexuscheck-dev/nexuscheck/internal/columns"
	"github.com/nexuscheck-dev/nexuscheck/internal/importer"
)

func newDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Preview how spreadsheet headers map to the transaction schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers, _, err := importer.DefaultRegistry().Load(args[0])
			if err != nil {
				return err
			}
			printMapping(cmd, headers, columns.Detect(headers))
			return nil
		},
	}
	return cmd
}

func printMapping(cmd *cobra.Command, headers []string, m *columns.Mapping) {
	cmd.Printf("Headers: %d\n\n", len(headers))
	cmd.Printf("%-20s %-24s %s\n", "Field", "Source Column", "Confidence")

	for _, field := range []columns.Field{
		columns.FieldDate, columns.FieldState, columns.FieldAmount,
		columns.FieldID, columns.FieldRevenueType, columns.FieldCount,
		columns.FieldCity, columns.FieldCounty, columns.FieldZip,
		columns.FieldAddress,
	} {
		source := m.Source(field)
		if source == "" {
			if suggestions := m.Suggestions[field]; len(suggestions) > 0 {
				cmd.Printf("%-20s %-24s suggestions: %s\n", field, "-", strings.Join(suggestions, ", "))
			}
			continue
		}
		cmd.Printf("%-20s %-24s %d\n", field, source, m.Confidence[field])
	}

	if missing := m.MissingRequired(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		cmd.Printf("\nMissing required columns: %s\n", strings.Join(names, ", "))
	}
	if len(m.Unmapped) > 0 {
		cmd.Printf("\nUnmapped columns (passed through): %s\n", strings.Join(m.Unmapped, ", "))
	}
}
