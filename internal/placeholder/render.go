package placeholder

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// Language is a script flavour with its own stub template.
type Language struct {
	Name string
	Ext  string
	Perm fs.FileMode
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"py":     pyLiteral,
	"sh":     shLiteral,
	"repeat": strings.Repeat,
}

// Python renders stubs for .py scripts. It is the fallback for unknown extensions.
var Python = Language{
	Name: "python",
	Ext:  ".py",
	Perm: 0o644,
	tmpl: template.Must(template.New("python").Funcs(funcs).Parse(pythonTemplate)),
}

// Shell renders stubs for .sh scripts, written executable.
var Shell = Language{
	Name: "shell",
	Ext:  ".sh",
	Perm: 0o755,
	tmpl: template.Must(template.New("shell").Funcs(funcs).Parse(shellTemplate)),
}

// LanguageFor picks the template by the script's extension.
func LanguageFor(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case Shell.Ext:
		return Shell
	default:
		return Python
	}
}

// Render produces the script body for stub. Output depends only on stub.
func (l Language) Render(stub Stub) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.tmpl.Execute(&buf, stub); err != nil {
		return nil, fmt.Errorf("render %s stub: %w", l.Name, err)
	}
	return buf.Bytes(), nil
}

func pyLiteral(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val), nil
	case int:
		return strconv.Itoa(val), nil
	case bool:
		if val {
			return "True", nil
		}
		return "False", nil
	case nil:
		return "None", nil
	default:
		return "", fmt.Errorf("no python literal for %T", v)
	}
}

func shLiteral(v any) (string, error) {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case int:
		s = strconv.Itoa(val)
	case bool:
		s = strconv.FormatBool(val)
	case nil:
	default:
		return "", fmt.Errorf("no shell literal for %T", v)
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'", nil
}

const pythonTemplate = `#!/usr/bin/env python3
"""
Employee Discovery Toolkit: {{.Label}}
{{range .Summary}}
{{.}}{{end}}
"""

import json
import os
import sys


def get_script_directory():
    return os.path.dirname(os.path.abspath(__file__))


def load_config():
    config_path = os.path.join(get_script_directory(), {{py .ConfigFile}})
    try:
        with open(config_path, "r", encoding="utf-8") as f:
            return json.load(f)
    except Exception as e:
        print(f"Error loading config: {e}")
        sys.exit(1)


def main():
    print("=" * {{.Width}})
    print({{py .Heading}})
    print("=" * {{.Width}})

    config = load_config()
{{range .Fields}}
    print({{py .Title}} + ": " + str(config.get({{py .Key}}, {{py .Default}}))){{end}}
{{range .Notes}}
    print({{py .}}){{end}}

    print("\n" + {{py .Notice}})
    print({{py .Hint}})

    input("\nPress Enter to exit...")


if __name__ == "__main__":
    main()
`

const shellTemplate = `#!/bin/sh
# Employee Discovery Toolkit: {{.Label}}
#{{range .Summary}}
# {{.}}{{end}}

CONFIG="$(dirname "$0")"/{{sh .ConfigFile}}

if [ ! -f "$CONFIG" ]; then
	echo "Error loading config: $CONFIG not found"
	exit 1
fi

field() {
	value=$(sed -n "s/.*\"$1\": *\"\{0,1\}\([^\",]*\)\"\{0,1\},\{0,1\} *$/\1/p" "$CONFIG" | head -n 1)
	if [ -z "$value" ]; then
		value=$2
	fi
	printf '%s: %s\n' "$3" "$value"
}

echo {{sh (repeat "=" .Width)}}
echo {{sh .Heading}}
echo {{sh (repeat "=" .Width)}}
{{range .Fields}}
field {{sh .Key}} {{sh .Default}} {{sh .Title}}{{end}}
{{range .Notes}}
echo {{sh .}}{{end}}

echo
echo {{sh .Notice}}
echo {{sh .Hint}}

printf '\nPress Enter to exit...'
read -r _
`
