// Package report writes the consolidated employee list to an Excel workbook.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JakeFAU/employee-discovery/internal/clock/system"
	"github.com/JakeFAU/employee-discovery/internal/employee"
)

// Sheet names.
const (
	EmployeesSheet    = "Employees"
	SummarySheet      = "Summary"
	InstructionsSheet = "Instructions"
)

// Header is the column header row of the employees sheet.
var Header = []string{"First Name", "Last Name", "Title", "Company", "Location", "Source", "Confidence", "Link"}

// Report is everything one workbook shows.
type Report struct {
	Company   string
	Location  string
	Source    string
	Generated time.Time
	Employees []employee.Record
	Stats     employee.Stats
}

// Write saves r as an .xlsx workbook at path, replacing any existing file.
func Write(path string, r Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), EmployeesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeEmployees(f, r); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	if err := writeSummary(f, r); err != nil {
		return err
	}
	if _, err := f.NewSheet(InstructionsSheet); err != nil {
		return fmt.Errorf("add instructions sheet: %w", err)
	}
	if err := setRows(f, InstructionsSheet, instructions); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeEmployees(f *excelize.File, r Report) error {
	title := r.Company
	if title == "" {
		title = "Company"
	}
	rows := [][]any{
		{title + " - Employee Directory"},
		{fmt.Sprintf("Generated on %s from %s", system.Stamp(r.Generated), r.Source)},
		toRow(Header),
	}
	label := cases.Title(language.Und)
	for _, e := range r.Employees {
		rows = append(rows, []any{
			e.FirstName,
			e.LastName,
			e.Title,
			e.CompanyName,
			e.Location,
			e.Source,
			label.String(string(e.Confidence)),
			e.Link,
		})
	}
	return setRows(f, EmployeesSheet, rows)
}

func writeSummary(f *excelize.File, r Report) error {
	label := cases.Title(language.Und)
	rows := [][]any{
		{"Employee Discovery Summary"},
		{"Company", r.Company},
		{"Location", r.Location},
		{"Generated", system.Stamp(r.Generated)},
		{"Total Employees", r.Stats.Total},
		{},
		{"By Confidence"},
	}
	for _, c := range employee.Confidences() {
		rows = append(rows, []any{"  " + label.String(string(c)), r.Stats.ByConfidence[c]})
	}
	rows = append(rows, []any{}, []any{"By Source"})
	for _, sc := range r.Stats.Sources() {
		rows = append(rows, []any{"  " + sc.Source, sc.Count})
	}
	return setRows(f, SummarySheet, rows)
}

var instructions = [][]any{
	{"How to Use This Employee Data"},
	{},
	{"Data Quality"},
	{"• High Confidence", "Most reliable data - use for important outreach"},
	{"• Medium Confidence", "Good data - verify before using"},
	{"• Low Confidence", "Needs manual verification"},
	{},
	{"LinkedIn Profiles"},
	{"• Click profile links", "Opens LinkedIn profiles in browser"},
	{"• Verify current employment", "Check if they still work at target company"},
	{"• Run verification script", "Use the LinkedIn verification script for bulk verification"},
	{},
	{"Export Options"},
	{"• Copy to CRM", "Select data and copy to customer management system"},
	{"• Save as CSV", "File > Save As > CSV for database import"},
	{"• Email lists", "Use first/last names for email address generation"},
	{},
	{"Data Privacy"},
	{"• Use responsibly", "Respect privacy laws and LinkedIn terms"},
	{"• Business use only", "Don't use for spam or unsolicited marketing"},
	{"• Keep updated", "Re-run scripts periodically for fresh data"},
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
