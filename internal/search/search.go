// Package search defines the fixed registry of employee search methods and
// parses menu tokens into selections.
package search

import (
	"errors"
	"fmt"
	"strings"
)

// Method is one concrete search method. The set is closed: every Method has
// an entry in the registry table below.
type Method int

// Search methods in run-all order.
const (
	LinkedInBing Method = iota
	LinkedInGeek
	CompanyWebsite
	Conference
	GeneralWeb

	methodCount
)

// Option describes how a Method is shown and launched.
type Option struct {
	Method      Method
	Token       string
	Script      string
	Label       string
	Description []string
}

var registry = [methodCount]Option{
	LinkedInBing: {
		Method: LinkedInBing,
		Token:  "1",
		Script: "script2_web_scraping.py",
		Label:  "LinkedIn Search (via Bing)",
		Description: []string{
			"Finds employee profiles from LinkedIn using Bing",
			"Extracts names, job titles, and profile links",
		},
	},
	LinkedInGeek: {
		Method: LinkedInGeek,
		Token:  "1a",
		Script: "script2_geek.py",
		Label:  "LinkedIn Search (via Recruitment Geek)",
		Description: []string{
			"Alternative LinkedIn search method using Recruitment Geek",
			"Specialized for recruitment and talent acquisition",
			"May provide different results than standard Bing search",
		},
	},
	CompanyWebsite: {
		Method: CompanyWebsite,
		Token:  "2",
		Script: "script2a_company_website_search.py",
		Label:  "Company Website Search",
		Description: []string{
			"Scans the company's website for employee information",
			"Looks for team/about/leadership pages",
		},
	},
	Conference: {
		Method: Conference,
		Token:  "3",
		Script: "script_conference_search.py",
		Label:  "Conference Attendee Search",
		Description: []string{
			"Searches for company employees in conference attendee lists",
			"Finds professionals who represent the company publicly",
		},
	},
	GeneralWeb: {
		Method: GeneralWeb,
		Token:  "4",
		Script: "script_general_web_search.py",
		Label:  "General Web Search",
		Description: []string{
			"Broader search across multiple platforms",
			"Includes news mentions, press releases, and articles",
		},
	},
}

// Menu tokens that are not search methods.
const (
	ExitToken   = "0"
	RunAllToken = "5"
)

// RunAllLabel names the run-all entry.
const RunAllLabel = "Run All Search Methods"

// ErrUnknownToken is returned by Parse for tokens outside the registry.
var ErrUnknownToken = errors.New("unknown menu option")

// Methods returns every method in run-all order.
func Methods() []Method {
	out := make([]Method, 0, methodCount)
	for m := LinkedInBing; m < methodCount; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is a registered method.
func (m Method) Valid() bool {
	return m >= 0 && m < methodCount
}

// Option returns the registry entry for m. It panics on an unregistered
// method, which can only come from a conversion outside this package.
func (m Method) Option() Option {
	if !m.Valid() {
		panic(fmt.Sprintf("search: unregistered method %d", int(m)))
	}
	return registry[m]
}

// Token returns the menu token for m.
func (m Method) Token() string { return m.Option().Token }

// Label returns the human readable name for m.
func (m Method) Label() string { return m.Option().Label }

// Script returns the script filename for m, relative to the work directory.
func (m Method) Script() string { return m.Option().Script }

func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return registry[m].Label
}

// Kind separates the three things a menu token can mean.
type Kind int

// Selection kinds.
const (
	KindExit Kind = iota
	KindMethod
	KindRunAll
)

// Selection is a parsed menu token. Method is meaningful only for KindMethod.
type Selection struct {
	Kind   Kind
	Method Method
}

// Parse maps a menu token to a selection. Input is trimmed and matched
// case-insensitively.
func Parse(token string) (Selection, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	switch normalized {
	case ExitToken:
		return Selection{Kind: KindExit}, nil
	case RunAllToken:
		return Selection{Kind: KindRunAll}, nil
	}
	for _, opt := range registry {
		if opt.Token == normalized {
			return Selection{Kind: KindMethod, Method: opt.Method}, nil
		}
	}
	return Selection{}, fmt.Errorf("%w: %q", ErrUnknownToken, token)
}

// Tokens lists every accepted token in menu order.
func Tokens() []string {
	out := []string{ExitToken}
	for _, opt := range registry {
		out = append(out, opt.Token)
	}
	return append(out, RunAllToken)
}
