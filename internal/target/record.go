// Package target holds the company config record shared by the menu and the
// external search scripts, and persists it as one JSON document.
package target

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults written into a fresh record.
const (
	DefaultOutputFile    = "employee_search_results.xlsx"
	DefaultTempDataFile  = "temp_employee_data.json"
	DefaultPagesToScrape = 5
)

// Config is the record the search scripts read. Keys the tool does not model
// are kept in extra and written back untouched.
type Config struct {
	CompanyName    string    `json:"company_name" validate:"required"`
	Location       string    `json:"location" validate:"required"`
	CompanyWebsite string    `json:"company_website" validate:"required,url"`
	OutputFile     string    `json:"output_file" validate:"required"`
	TempDataFile   string    `json:"temp_data_file"`
	PagesToScrape  int       `json:"pages_to_scrape" validate:"min=1"`
	DebugMode      bool      `json:"debug_mode"`
	SearchTypes    []string  `json:"search_types"`
	Timestamp      string    `json:"timestamp"`
	SelectedSearch Selection `json:"selected_search"`

	extra map[string]json.RawMessage
}

var knownKeys = []string{
	"company_name",
	"location",
	"company_website",
	"output_file",
	"temp_data_file",
	"pages_to_scrape",
	"debug_mode",
	"search_types",
	"timestamp",
	"selected_search",
}

var validate = validator.New()

// Validate reports missing or malformed fields. A freshly defaulted record is
// not valid until the prompt fills in the company details.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config record: %w", err)
	}
	return nil
}

// RecordSearch marks label as attempted, keeping first-dispatch order.
func (c *Config) RecordSearch(token, label string) {
	c.SelectedSearch = Selection(token)
	for _, existing := range c.SearchTypes {
		if existing == label {
			return
		}
	}
	c.SearchTypes = append(c.SearchTypes, label)
}

// ProcessedDataFileKey is the record key some scripts use to rename the
// processed employee list.
const ProcessedDataFileKey = "processed_data_file"

// ProcessedDataFile returns the processed list name stored in the record, or
// "" when the key is absent, empty, or not a string.
func (c Config) ProcessedDataFile() string {
	raw, ok := c.Extra(ProcessedDataFileKey)
	if !ok {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// Extra returns a copy of the raw value stored under an unmodelled key.
func (c Config) Extra(key string) (json.RawMessage, bool) {
	raw, ok := c.extra[key]
	if !ok {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// MarshalJSON writes the modelled fields merged over any preserved keys.
func (c Config) MarshalJSON() ([]byte, error) {
	type plain Config
	known, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	if len(c.extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(c.extra)+len(knownKeys))
	for k, v := range c.extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes over the receiver's current values so absent keys
// keep their defaults, and stashes unmodelled keys.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	p := plain(*c)
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownKeys {
		delete(all, k)
	}
	p.extra = nil
	if len(all) > 0 {
		p.extra = all
	}
	*c = Config(p)
	return nil
}

// Selection is the menu token of the last dispatched search. Older records
// stored numeric tokens, so numbers decode too.
type Selection string

// UnmarshalJSON accepts a JSON string, number, or null.
func (s *Selection) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*s = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		*s = Selection(str)
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return fmt.Errorf("selected_search: %w", err)
		}
		if _, err := strconv.ParseInt(num.String(), 10, 64); err != nil {
			return fmt.Errorf("selected_search: %w", err)
		}
		*s = Selection(num.String())
		return nil
	}
}

// DeriveOutputFile names the Excel report after the company and location.
func DeriveOutputFile(company, location string) string {
	return fmt.Sprintf("%s_%s_employees.xlsx",
		strings.ReplaceAll(company, " ", "_"),
		strings.ReplaceAll(location, " ", "_"),
	)
}

// NormalizeWebsite prefixes https:// when no scheme is present.
func NormalizeWebsite(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if strings.HasPrefix(website, "http://") || strings.HasPrefix(website, "https://") {
		return website
	}
	return "https://" + website
}
