// Package report writes analysis results to Excel workbooks.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nexuscheck-dev/nexuscheck/internal/model"
)

const (
	summarySheet = "Executive Summary"
	detailSheet  = "Nexus States"

	currencyFormat = "$#,##0.00"
	percentFormat  = "0.0%"
	rateFormat     = "0.00%"

	headerFill = "366092"
)

var detailHeaders = []string{
	"State",
	"Revenue",
	"Threshold",
	"% of Threshold",
	"Transactions",
	"Breach Type",
	"Breach Date",
	"Tax Rate",
	"Est. Liability",
}

// WriteExcel writes a two-sheet workbook: an executive summary and one
// detail row per breaching state, highest revenue first.
func WriteExcel(result *model.AnalysisResult, year int, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return fmt.Errorf("creating detail sheet: %w", err)
	}

	if err := writeSummary(f, result, year); err != nil {
		return err
	}
	if err := writeDetail(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report to %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, result *model.AnalysisResult, year int) error {
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return fmt.Errorf("building title style: %w", err)
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("building section style: %w", err)
	}
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(currencyFormat)})
	if err != nil {
		return fmt.Errorf("building currency style: %w", err)
	}

	nexusCount := 0
	for _, r := range result.NexusResults {
		if r.HasNexus {
			nexusCount++
		}
	}

	f.SetCellValue(summarySheet, "A1", "Nexus Analysis Report")
	f.SetCellStyle(summarySheet, "A1", "A1", titleStyle)
	f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Analysis Year: %d", year))
	f.SetCellValue(summarySheet, "A3", "Generated: "+time.Now().Format("2006-01-02"))

	f.SetCellValue(summarySheet, "A5", "Summary")
	f.SetCellStyle(summarySheet, "A5", "A5", sectionStyle)

	f.SetCellValue(summarySheet, "A6", "States with Nexus:")
	f.SetCellValue(summarySheet, "B6", nexusCount)
	f.SetCellValue(summarySheet, "A7", "Total Liability:")
	f.SetCellValue(summarySheet, "B7", result.TotalLiability.InexactFloat64())
	f.SetCellStyle(summarySheet, "B7", "B7", currencyStyle)
	f.SetCellValue(summarySheet, "A8", "Transactions Analyzed:")
	f.SetCellValue(summarySheet, "B8", result.RowsProcessed)

	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 16)
	return nil
}

func writeDetail(f *excelize.File, result *model.AnalysisResult) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return fmt.Errorf("building header style: %w", err)
	}
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(currencyFormat)})
	if err != nil {
		return fmt.Errorf("building currency style: %w", err)
	}
	percentStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(percentFormat)})
	if err != nil {
		return fmt.Errorf("building percent style: %w", err)
	}
	rateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(rateFormat)})
	if err != nil {
		return fmt.Errorf("building rate style: %w", err)
	}

	for col, header := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(detailSheet, cell, header)
		f.SetCellStyle(detailSheet, cell, cell, headerStyle)
	}

	breached := make([]model.NexusResult, 0, len(result.NexusResults))
	for _, r := range result.NexusResults {
		if r.HasNexus {
			breached = append(breached, r)
		}
	}
	sort.Slice(breached, func(i, j int) bool {
		return breached[i].TotalRevenue.GreaterThan(breached[j].TotalRevenue)
	})

	hundred := 100.0
	for i, state := range breached {
		row := i + 2
		set := func(col int, v interface{}, style int) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(detailSheet, cell, v)
			if style != 0 {
				f.SetCellStyle(detailSheet, cell, cell, style)
			}
		}

		breachDate := ""
		if !state.BreachDate.IsZero() {
			breachDate = state.BreachDate.Format("2006-01-02")
		}

		set(1, state.StateCode, 0)
		set(2, state.TotalRevenue.InexactFloat64(), currencyStyle)
		set(3, state.ThresholdRevenue.InexactFloat64(), currencyStyle)
		set(4, state.ThresholdPercentage.InexactFloat64()/hundred, percentStyle)
		set(5, state.TotalTransactions, 0)
		set(6, string(state.BreachType), 0)
		set(7, breachDate, 0)
		set(8, state.TaxRate.InexactFloat64()/hundred, rateStyle)
		set(9, state.EstimatedLiability.InexactFloat64(), currencyStyle)
	}

	f.SetColWidth(detailSheet, "A", "I", 16)
	return nil
}

func strPtr(s string) *string { return &s }
