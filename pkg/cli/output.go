package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"adsweep/internal/domain"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTable writes rows as a plain-text table: uppercased headers,
// two-space gutters, columns sized to their widest cell.
func PrintTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
			} else {
				parts[i] = cell
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}
	printRow(upper)
	for _, row := range rows {
		printRow(row)
	}
}

// summaryHeaders is the column set shared by query output and the
// remediation candidate listing.
var summaryHeaders = []string{"Display Name", "Account", "Created", "Last Logon"}

func summaryRows(rows []domain.InactiveUserSummary) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.DisplayName, r.AccountID, r.CreatedDisplay, r.LastLogonDisplay}
	}
	return out
}

// IsStdinTTY reports whether stdin is an interactive terminal.
func IsStdinTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword prompts for the bind password without echo.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

// resolveBindPassword returns the configured password, prompting on a TTY
// when none was supplied.
func resolveBindPassword(o *options) (string, error) {
	if o.bindPassword != "" {
		return o.bindPassword, nil
	}
	if o.bindDN == "" {
		// Anonymous bind, nothing to prompt for.
		return "", nil
	}
	if !IsStdinTTY() {
		return "", fmt.Errorf("bind password required: set --bind-password or ADSWEEP_BIND_PASSWORD")
	}
	return readPassword(fmt.Sprintf("Password for %s: ", o.bindDN))
}
