package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSampleCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sales.csv")
	content := "Date,State,Amount,Order ID\n" +
		"01/05/2023,CA,\"250,000.00\",ord-1\n" +
		"02/05/2023,CA,\"250,000.00\",ord-2\n" +
		"03/05/2023,CA,\"100,000.00\",ord-3\n" +
		"03/06/2023,TX,\"1,000.00\",ord-4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStatesCommand(t *testing.T) {
	out, err := execute(t, "states")
	require.NoError(t, err)
	assert.Contains(t, out, "State Nexus Rules")
	assert.Contains(t, out, "CA")
	assert.Contains(t, out, "$500000")
}

func TestStateInfoCommand(t *testing.T) {
	out, err := execute(t, "state", "ca")
	require.NoError(t, err)
	assert.Contains(t, out, "CA - Nexus Information")
	assert.Contains(t, out, "Revenue Threshold")
	assert.Contains(t, out, "$500000")
	assert.Contains(t, out, "Combined Tax Rate")
}

func TestStateInfoCommand_NoSalesTax(t *testing.T) {
	out, err := execute(t, "state", "OR")
	require.NoError(t, err)
	assert.Contains(t, out, "No sales tax")
}

func TestStateInfoCommand_UnknownState(t *testing.T) {
	_, err := execute(t, "state", "ZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state not found")
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleCSV(t, dir)

	out, err := execute(t, "detect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "date")
	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "Order ID")
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleCSV(t, dir)
	output := filepath.Join(dir, "report.xlsx")

	out, err := execute(t, "analyze", path,
		"--year", "2023",
		"--output", output,
		"--log-dir", dir,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "States with nexus: 1")
	assert.Contains(t, out, "CA")

	_, err = os.Stat(output)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "logs", "run-log.csv"))
	assert.NoError(t, err)
}

func TestAnalyzeCommand_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Notes,Comment\nx,y\n"), 0o644))

	_, err := execute(t, "analyze", path, "--year", "2023", "--log-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns not found")
}

func TestAnalyzeCommand_BadMode(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleCSV(t, dir)

	_, err := execute(t, "analyze", path, "--mode", "turbo", "--log-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestAnalyzeCommand_RangeRequiresBothYears(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleCSV(t, dir)

	_, err := execute(t, "analyze", path, "--mode", "multiYearEstimate", "--year-start", "2022", "--log-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--year-end")
}

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCommand()
	assert.IsType(t, &cobra.Command{}, cmd)
	assert.Contains(t, cmd.Version, "dev")
}
