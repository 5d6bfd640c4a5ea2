// Package usecase defines the stylistic targets a transformation can aim for
// and the canned phrase substitutions used by the local-only mode.
package usecase

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown indicates an invalid use case name was specified.
var ErrUnknown = errors.New("unknown use case")

// UseCase is a stylistic target tag. Unknown values are representable so that
// prompt building can fall back to Professional instead of failing.
type UseCase string

// Use case tags.
const (
	Academic     UseCase = "academic"
	Professional UseCase = "professional"
	Casual       UseCase = "casual"
	Social       UseCase = "social"
	Creative     UseCase = "creative"
	Technical    UseCase = "technical"
	Custom       UseCase = "custom"
)

// Default is used when no use case is configured.
const Default = Professional

// info describes a use case for selectors and help text.
type info struct {
	label       string
	description string
}

// order is the canonical order for All, CLI help and the HTTP listing.
var order = []UseCase{Academic, Professional, Casual, Social, Creative, Technical, Custom}

var infos = map[UseCase]info{
	Academic:     {"Academic Paper", "Research papers, essays, formal writing"},
	Professional: {"Professional/CV", "Resumes, cover letters, business documents"},
	Casual:       {"Blog/Article", "Blog posts, articles, informal writing"},
	Social:       {"Social Media", "Posts, captions, social content"},
	Creative:     {"Creative Writing", "Stories, creative content, fiction"},
	Technical:    {"Technical Docs", "Documentation, tutorials, guides"},
	Custom:       {"Custom", "Define your own use case"},
}

// Parse validates a use case name. Matching is case-insensitive.
// Empty string returns Default.
func Parse(s string) (UseCase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	u := UseCase(s)
	if !u.IsKnown() {
		return "", fmt.Errorf("unknown use case %q (valid: %s): %w", s, strings.Join(Names(), ", "), ErrUnknown)
	}
	return u, nil
}

// MustParse parses a use case, panicking if invalid.
// Use only for constants and tests.
func MustParse(s string) UseCase {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the tag.
func (u UseCase) String() string {
	return string(u)
}

// IsKnown reports whether u is one of the defined tags.
func (u UseCase) IsKnown() bool {
	_, ok := infos[u]
	return ok
}

// IsCustom reports whether u carries a caller-supplied instruction.
func (u UseCase) IsCustom() bool {
	return u == Custom
}

// OrDefault returns u, or Professional if u is not a known tag.
func (u UseCase) OrDefault() UseCase {
	if !u.IsKnown() {
		return Default
	}
	return u
}

// Label returns the human-readable name, falling back to Professional's.
func (u UseCase) Label() string {
	return infos[u.OrDefault()].label
}

// Description returns a one-line description, falling back to Professional's.
func (u UseCase) Description() string {
	return infos[u.OrDefault()].description
}

// All returns every use case in canonical order.
func All() []UseCase {
	return append([]UseCase(nil), order...)
}

// Names returns every tag as a string in canonical order.
func Names() []string {
	names := make([]string, len(order))
	for i, u := range order {
		names[i] = string(u)
	}
	return names
}
