package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStateInfoCommand() *cobra.Command {
	var rulesPath, ratesPath string

	cmd := &cobra.Command{
		Use:   "state <code>",
		Short: "Show nexus rule and tax rate details for one state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadRules(rulesPath, ratesPath)
			if err != nil {
				return err
			}

			code := strings.ToUpper(strings.TrimSpace(args[0]))
			rule, ok := table.RuleFor(code)
			if !ok {
				return fmt.Errorf("state not found: %s", code)
			}

			cmd.Printf("%s - Nexus Information\n\n", code)
			cmd.Printf("%-22s %s\n", "Rule ID", rule.RuleID)
			cmd.Printf("%-22s %s\n", "Effective Date", rule.EffectiveDate.Format("2006-01-02"))

			if rule.Amount.IsPositive() {
				cmd.Printf("%-22s $%s\n", "Revenue Threshold", rule.Amount.StringFixed(0))
			} else {
				cmd.Printf("%-22s No sales tax\n", "Revenue Threshold")
			}

			if rule.Transactions > 0 {
				cmd.Printf("%-22s %d\n", "Transaction Threshold", rule.Transactions)
			} else {
				cmd.Printf("%-22s Not applicable\n", "Transaction Threshold")
			}

			if rate, ok := table.RateFor(code); ok {
				cmd.Printf("%-22s %s%%\n", "Combined Tax Rate", rate.CombinedRate.StringFixed(2))
			}
			if rule.Notes != "" {
				cmd.Printf("%-22s %s\n", "Notes", rule.Notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "state rules YAML (default: embedded)")
	cmd.Flags().StringVar(&ratesPath, "rates", "", "tax rates YAML (default: embedded)")
	return cmd
}
