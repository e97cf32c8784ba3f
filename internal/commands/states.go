package commands

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newStatesCommand() *cobra.Command {
	var rulesPath, ratesPath string

	cmd := &cobra.Command{
		Use:   "states",
		Short: "List all state nexus rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadRules(rulesPath, ratesPath)
			if err != nil {
				return err
			}

			cmd.Printf("State Nexus Rules\n")
			cmd.Printf("Version: %s\n", table.Version)
			cmd.Printf("Last updated: %s\n", table.LastUpdated.Format("2006-01-02"))
			cmd.Printf("Source: %s\n\n", table.Source)

			cmd.Printf("%-6s %18s %22s %-12s %s\n",
				"State", "Revenue Threshold", "Transaction Threshold", "Effective", "Notes")

			current := table.Current()
			for _, rule := range current {
				revenue := "No tax"
				if rule.Amount.IsPositive() {
					revenue = "$" + rule.Amount.StringFixed(0)
				}
				cmd.Printf("%-6s %18s %22s %-12s %s\n",
					rule.StateCode, revenue, transactionThreshold(rule.Transactions),
					rule.EffectiveDate.Format("2006-01-02"), rule.Notes)
			}

			cmd.Printf("\nTotal states: %d\n", len(current))
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "state rules YAML (default: embedded)")
	cmd.Flags().StringVar(&ratesPath, "rates", "", "tax rates YAML (default: embedded)")
	return cmd
}

func transactionThreshold(n int) string {
	if n <= 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
