package sheet

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"seller_notification_service/internal/domain/seller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sellers.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newSource(path string, headerRows int) *CSVRowSource {
	return NewCSVRowSource(path, headerRows, log.New(io.Discard, "", 0))
}

func TestRowsSkipsHeaderAndParses(t *testing.T) {
	path := writeCSV(t, "ID,Name,Email,Result,Report\n"+
		"S-1,Alpha Store,a@x.com,Passed,https://reports/1\n"+
		"S-2,Beta Store,b@x.com,failed,https://reports/2\n")

	rows, err := newSource(path, 1).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "S-1", rows[0].SellerID)
	assert.Equal(t, "Alpha Store", rows[0].SellerName)
	assert.Equal(t, seller.ResultPassed, rows[0].Result, "mixed-case result must match case-insensitively")
	assert.Equal(t, "https://reports/1", rows[0].ReportLink)
	assert.Equal(t, seller.ResultFailed, rows[1].Result)
}

func TestRowsCommaSeparatedRecipients(t *testing.T) {
	path := writeCSV(t, "ID,Name,Email,Result,Report\n"+
		`S-1,Alpha Store,"a@x.com, b@x.com",PASSED,https://reports/1`+"\n")

	rows, err := newSource(path, 1).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, rows[0].Recipients())
}

func TestRowsSkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, "ID,Name,Email,Result,Report\n"+
		"S-1,Alpha,a@x.com,Passed,https://reports/1\n"+
		"S-2,too-few-columns\n"+
		"S-3,Gamma,c@x.com,maybe,https://reports/3\n"+
		"S-4,Delta,   ,failed,https://reports/4\n")

	rows, err := newSource(path, 1).Rows(context.Background())
	require.NoError(t, err, "bad rows are skipped, never aborting the batch")
	require.Len(t, rows, 1)
	assert.Equal(t, "S-1", rows[0].SellerID)
}

func TestRowsHeaderSkipCount(t *testing.T) {
	path := writeCSV(t, "Quality report export\n"+
		"ID,Name,Email,Result,Report\n"+
		"S-1,Alpha,a@x.com,Passed,https://reports/1\n")

	rows, err := newSource(path, 2).Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRowsOnlyHeaders(t *testing.T) {
	path := writeCSV(t, "ID,Name,Email,Result,Report\n")

	rows, err := newSource(path, 1).Rows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowsMissingFileIsFatal(t *testing.T) {
	_, err := newSource("/nonexistent/sellers.csv", 1).Rows(context.Background())
	require.Error(t, err, "an unreachable row source aborts the run before any mail is sent")
}
