package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iho/rentledger/internal/adapter/http/dto"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD75F"})
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// column is one table column; amounts are right aligned.
type column struct {
	title  string
	width  int
	amount bool
}

func renderTable(w io.Writer, cols []column, rows [][]string) {
	cell := func(c column, s string) string {
		style := lipgloss.NewStyle().Width(c.width).MaxWidth(c.width).PaddingRight(1)
		if c.amount {
			style = style.Align(lipgloss.Right)
		}
		return style.Render(truncate(s, c.width-1))
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = headerStyle.Render(cell(c, c.title))
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cell(c, row[i])
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
}

func renderEntries(w io.Writer, entries []*dto.EntryResponse) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.EntryDate,
			e.Type,
			e.Category,
			e.Description,
			e.Amount.StringFixed(2),
			e.RunningBalance.StringFixed(2),
		}
	}
	renderTable(w, []column{
		{title: "DATE", width: 11},
		{title: "TYPE", width: 7},
		{title: "CATEGORY", width: 14},
		{title: "DESCRIPTION", width: 32},
		{title: "AMOUNT", width: 13, amount: true},
		{title: "BALANCE", width: 13, amount: true},
	}, rows)
}

func renderAdvances(w io.Writer, advances []*dto.AdvanceResponse) {
	if len(advances) == 0 {
		fmt.Fprintln(w, "No advances.")
		return
	}

	rows := make([][]string, len(advances))
	for i, a := range advances {
		rows[i] = []string{
			a.ID,
			a.Status,
			a.PaidDate.Format("2006-01-02"),
			a.Amount.StringFixed(2),
			a.RemainingBalance.StringFixed(2),
		}
	}
	renderTable(w, []column{
		{title: "ID", width: 27},
		{title: "STATUS", width: 12},
		{title: "PAID", width: 11},
		{title: "AMOUNT", width: 13, amount: true},
		{title: "REMAINING", width: 13, amount: true},
	}, rows)
}

func renderReport(w io.Writer, r *dto.ReportResponse) {
	fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("Report %s to %s", r.StartDate, r.EndDate)))

	rows := make([][]string, 0, len(r.ByCategory)+1)
	for _, c := range r.ByCategory {
		rows = append(rows, []string{c.Category, c.Credits.StringFixed(2), c.Debits.StringFixed(2)})
	}
	rows = append(rows, []string{"TOTAL", r.TotalCredits.StringFixed(2), r.TotalDebits.StringFixed(2)})

	renderTable(w, []column{
		{title: "CATEGORY", width: 16},
		{title: "CREDITS", width: 14, amount: true},
		{title: "DEBITS", width: 14, amount: true},
	}, rows)

	net := r.Net.StringFixed(2)
	if r.Net.IsNegative() {
		net = errorStyle.Render(net)
	} else {
		net = successStyle.Render(net)
	}
	fmt.Fprintf(w, "Net: %s\n", net)
}

func renderConsistency(w io.Writer, r *dto.ConsistencyResponse) {
	if r.Consistent {
		fmt.Fprintln(w, successStyle.Render("Consistency check PASSED"))
	} else {
		fmt.Fprintln(w, errorStyle.Render("Consistency check FAILED"))
	}
	fmt.Fprintf(w, "Entries: %d  Advances: %d  Final balance: %s\n",
		r.Entries, r.Advances, r.FinalBalance.StringFixed(2))

	for _, m := range r.BalanceMismatches {
		fmt.Fprintf(w, "  entry %s: stored %s, expected %s\n",
			m.EntryID, m.Stored.StringFixed(2), m.Expected.StringFixed(2))
	}
	for _, v := range r.AdvanceViolations {
		fmt.Fprintf(w, "  advance %s: %s\n", v.AdvanceID, v.Reason)
	}
	if len(r.OvercoveredPayments) > 0 {
		fmt.Fprintf(w, "  overcovered payments: %s\n", strings.Join(r.OvercoveredPayments, ", "))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
