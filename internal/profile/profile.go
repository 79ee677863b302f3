// Package profile loads the built-in field rules that tell the row parser
// which column headers hold which audit fields.
package profile

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Field names used by the row parser.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldLocation    = "location"
	FieldCircle      = "circle"
	FieldDate        = "date"
	FieldTimestamp   = "timestamp"
	FieldScore       = "score"
	FieldAuditorName = "auditor_name"
)

// RequiredFields must be present in every profile.
var RequiredFields = []string{
	FieldID, FieldName, FieldLocation, FieldCircle,
	FieldDate, FieldTimestamp, FieldScore, FieldAuditorName,
}

// Profile holds the header rules for one audit type.
type Profile struct {
	Name        string   `yaml:"name"`
	Version     int      `yaml:"version"`
	Description string   `yaml:"description"`
	Indicators  []string `yaml:"indicators"`
	Fields      []Field  `yaml:"fields"`
}

// Field lists the header substrings that identify one logical field.
// Candidates are lower case.
type Field struct {
	Name       string   `yaml:"name"`
	Candidates []string `yaml:"candidates"`
}

// Candidates returns the header substrings for a field, or nil.
func (p *Profile) Candidates(field string) []string {
	for _, f := range p.Fields {
		if f.Name == field {
			return f.Candidates
		}
	}
	return nil
}

// IsFieldHeader reports whether a folded header names one of the profile's
// fields rather than asking a question. The header must contain a field
// candidate, add at most maxExtraWords words to it, and not end in "?".
func (p *Profile) IsFieldHeader(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasSuffix(key, "?") {
		return false
	}
	for _, f := range p.Fields {
		for _, c := range f.Candidates {
			i := strings.Index(key, c)
			if i < 0 {
				continue
			}
			if extraWords(key[:i]+" "+key[i+len(c):]) <= maxExtraWords {
				return true
			}
		}
	}
	return false
}

const maxExtraWords = 2

// extraWords counts the whitespace-separated tokens of s that hold a
// letter or digit.
func extraWords(s string) int {
	n := 0
	for _, w := range strings.Fields(s) {
		if strings.IndexFunc(w, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			n++
		}
	}
	return n
}

// MustLoadBuiltin is LoadBuiltin for profiles that ship with the binary.
// It panics on error.
func MustLoadBuiltin(name string) *Profile {
	p, err := LoadBuiltin(name)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadBuiltin loads a built-in profile by name.
func LoadBuiltin(name string) (*Profile, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("profile.LoadBuiltin: unknown profile %q: %w", name, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile.LoadBuiltin: parse %q: %w", name, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("profile.LoadBuiltin: %q: %w", name, err)
	}
	return &p, nil
}

func (p *Profile) validate() error {
	if len(p.Indicators) == 0 {
		return fmt.Errorf("no indicators")
	}
	for _, name := range RequiredFields {
		c := p.Candidates(name)
		if len(c) == 0 {
			return fmt.Errorf("field %q has no candidates", name)
		}
		for _, s := range c {
			if s != strings.ToLower(s) {
				return fmt.Errorf("field %q candidate %q must be lower case", name, s)
			}
		}
	}
	return nil
}

// List returns the names of all available built-in profiles.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}
