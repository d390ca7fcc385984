// Package employee merges the employee lists written by the search scripts
// into one cleaned, deduplicated, sorted list.
package employee

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Confidence grades how sure a search script was about a match.
type Confidence string

// Confidence levels, best first.
const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// Confidences lists every level in sort order.
func Confidences() []Confidence {
	return []Confidence{High, Medium, Low}
}

// ParseConfidence lower-cases s and falls back to Low for anything unknown.
func ParseConfidence(s string) Confidence {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case High, Medium, Low:
		return c
	default:
		return Low
	}
}

// Rank orders confidences for sorting; lower is better.
func (c Confidence) Rank() int {
	switch c {
	case High:
		return 0
	case Medium:
		return 1
	default:
		return 2
	}
}

// Unknown fills missing titles and sources.
const Unknown = "Unknown"

// minNameLength is the shortest first or last name accepted.
const minNameLength = 2

// Record is one cleaned employee.
type Record struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Title       string     `json:"title"`
	Source      string     `json:"source"`
	Confidence  Confidence `json:"confidence"`
	Location    string     `json:"location"`
	CompanyName string     `json:"company_name"`
	Link        string     `json:"link"`
	LastUpdated string     `json:"last_updated,omitempty"`
}

// Raw is an employee as a search script wrote it. Scripts disagree on the
// name of the link field.
type Raw struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	Confidence  string `json:"confidence"`
	Location    string `json:"location"`
	CompanyName string `json:"company_name"`
	Link        string `json:"link"`
	SourceLink  string `json:"source_link"`
	URL         string `json:"url"`
	LastUpdated string `json:"last_updated"`
}

// Key identifies an employee across lists.
func (r Raw) Key() string {
	return Key(r.FirstName, r.LastName)
}

// Key identifies the record across lists.
func (r Record) Key() string {
	return Key(r.FirstName, r.LastName)
}

// Key builds the identity key from a first and last name.
func Key(first, last string) string {
	return strings.ToLower(strings.TrimSpace(first)) + "_" + strings.ToLower(strings.TrimSpace(last))
}

// Valid reports whether both names have at least two characters once trimmed.
func (r Raw) Valid() bool {
	return len([]rune(strings.TrimSpace(r.FirstName))) >= minNameLength &&
		len([]rune(strings.TrimSpace(r.LastName))) >= minNameLength
}

// Defaults supplies company and location for records that omit them.
type Defaults struct {
	CompanyName string
	Location    string
}

// Clean standardizes r into a Record.
func (r Raw) Clean(def Defaults) Record {
	rec := Record{
		FirstName:   TitleName(strings.TrimSpace(r.FirstName)),
		LastName:    TitleName(strings.TrimSpace(r.LastName)),
		Title:       orDefault(r.Title, Unknown),
		Source:      orDefault(r.Source, Unknown),
		Confidence:  ParseConfidence(r.Confidence),
		Location:    orDefault(r.Location, def.Location),
		CompanyName: orDefault(r.CompanyName, def.CompanyName),
		LastUpdated: strings.TrimSpace(r.LastUpdated),
	}
	for _, link := range []string{r.Link, r.SourceLink, r.URL} {
		if link = strings.TrimSpace(link); link != "" {
			rec.Link = link
			break
		}
	}
	return rec
}

// TitleName capitalizes the first letter of every run of letters and lowers
// the rest, so "o'brien" becomes "O'Brien" and "mary-jane" "Mary-Jane".
func TitleName(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	b.Grow(len(s))
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsMark(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// Sort orders records by confidence, then last name, then first name.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if ra, rb := a.Confidence.Rank(), b.Confidence.Rank(); ra != rb {
			return ra < rb
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	})
}

// Stats summarizes a consolidated list.
type Stats struct {
	Total        int
	ByConfidence map[Confidence]int
	BySource     map[string]int
}

// SourceCount is one row of the per-source breakdown.
type SourceCount struct {
	Source string
	Count  int
}

// Summarize counts records by confidence and by source.
func Summarize(records []Record) Stats {
	stats := Stats{
		Total:        len(records),
		ByConfidence: map[Confidence]int{High: 0, Medium: 0, Low: 0},
		BySource:     map[string]int{},
	}
	for _, rec := range records {
		stats.ByConfidence[rec.Confidence]++
		stats.BySource[rec.Source]++
	}
	return stats
}

// Sources returns the per-source counts, largest first, ties by name.
func (s Stats) Sources() []SourceCount {
	out := make([]SourceCount, 0, len(s.BySource))
	for source, n := range s.BySource {
		out = append(out, SourceCount{Source: source, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// ConfidenceLabels returns ByConfidence keyed by plain strings.
func (s Stats) ConfidenceLabels() map[string]int {
	out := make(map[string]int, len(s.ByConfidence))
	for c, n := range s.ByConfidence {
		out[string(c)] = n
	}
	return out
}
