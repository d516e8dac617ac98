// Package report serializes inactivity query results into durable report
// artifacts.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"adsweep/internal/domain"
)

// csvHeader is the fixed column set, one row per account, no type-metadata
// row. The columns mirror the summary fields exactly.
var csvHeader = []string{"DisplayName", "SAMAccountName", "Created", "LastLogon"}

// WriteCSV writes the result set as UTF-8 CSV with a header row.
func WriteCSV(w io.Writer, rows []domain.InactiveUserSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.DisplayName, r.AccountID, r.CreatedDisplay, r.LastLogonDisplay}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", r.AccountID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
