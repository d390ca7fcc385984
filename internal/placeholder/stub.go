// Package placeholder synthesizes stand-in search scripts for methods whose
// script is missing. A Stub describes what the stand-in shows; one template
// per script language turns it into a file.
package placeholder

import (
	"strings"

	"github.com/JakeFAU/employee-discovery/internal/search"
)

// NotImplementedNotice is printed by every generated stub.
const NotImplementedNotice = "This functionality is not yet implemented."

// Field is one config record key the stub echoes back.
type Field struct {
	Key   string
	Title string
	// Default is shown when the key is absent. Strings, ints and bools are
	// rendered as literals of the target language.
	Default any
}

// Stub describes a generated script.
type Stub struct {
	Label      string
	ConfigFile string
	Width      int
	Summary    []string
	Fields     []Field
	Notes      []string
	Hint       string
}

// Heading is the banner line printed between the rules.
func (s Stub) Heading() string {
	return "EMPLOYEE DISCOVERY TOOLKIT: " + strings.ToUpper(s.Label)
}

// Notice returns the fixed not-implemented line.
func (Stub) Notice() string {
	return NotImplementedNotice
}

var targetFields = []Field{
	{Key: "company_name", Title: "Company", Default: "Not set"},
	{Key: "location", Title: "Location", Default: "Not set"},
	{Key: "company_website", Title: "Website", Default: "Not set"},
}

// ForMethod builds the stub for m. Recruitment Geek carries the page budget
// and implementation notes; other methods echo the target only.
func ForMethod(m search.Method, configFile string) Stub {
	label := m.Label()
	if m == search.LinkedInGeek {
		return Stub{
			Label:      label,
			ConfigFile: configFile,
			Width:      70,
			Summary: []string{
				"This script implements LinkedIn employee search using Recruitment Geek methodology.",
				"Customize this script with your specific Recruitment Geek search implementation.",
			},
			Fields: append(append([]Field(nil), targetFields...),
				Field{Key: "pages_to_scrape", Title: "Pages to scrape", Default: 5}),
			Notes: []string{
				"",
				"LinkedIn Search via Recruitment Geek",
				"This search method is designed for specialized recruitment searches.",
				"",
				"Implementation needed:",
				"   - Add your Recruitment Geek search logic here",
				"   - Implement LinkedIn profile discovery",
				"   - Add data extraction and processing",
				"   - Generate Excel output with results",
				"",
				"Suggested implementation:",
				"   1. Use specialized search queries for recruitment",
				"   2. Target specific job titles and seniority levels",
				"   3. Extract comprehensive profile information",
				"   4. Generate recruiter-friendly output format",
			},
			Hint: "Replace this placeholder with your Recruitment Geek search logic.",
		}
	}
	return Stub{
		Label:      label,
		ConfigFile: configFile,
		Width:      60,
		Summary: []string{
			"This is a placeholder script for the " + label + " functionality.",
			"Implement the specific search logic for this method here.",
		},
		Fields: append([]Field(nil), targetFields...),
		Hint:   "Implement the " + label + " logic in this script.",
	}
}
