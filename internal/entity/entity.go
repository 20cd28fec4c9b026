package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LocatorFamily string

const (
	FamilyXPath LocatorFamily = "xpath"
	FamilyCSS   LocatorFamily = "css"
	FamilyRole  LocatorFamily = "role"
)

// ElementSnapshot holds the facts extracted for one DOM node at scan time.
// It is a plain value: no live handle is retained, the document may mutate
// after introspection without invalidating the snapshot itself.
type ElementSnapshot struct {
	Tag        string
	ID         string
	Classes    []string
	Attributes map[string]string
	Text       string
	Label      string
	// LabelFor is true when Label comes from a label[for] association,
	// false when the control is wrapped by the label element.
	LabelFor  bool
	Ancestors []AncestorSnapshot
	// TagIndex is the 1-based position among all elements of the same tag
	// in document order, captured for the (//tag)[k] fallback.
	TagIndex int
	// SiblingIndex is the 1-based nth-of-type position within the parent.
	SiblingIndex int
	Visible      bool
	Clickable    bool
}

type AncestorSnapshot struct {
	Tag        string
	ID         string
	Attributes map[string]string
	// Direct marks the element's immediate parent.
	Direct bool
}

// Attr returns the attribute value with HTML's case-insensitive key semantics.
func (s ElementSnapshot) Attr(name string) string {
	if s.Attributes == nil {
		return ""
	}

	if v, ok := s.Attributes[name]; ok {
		return v
	}

	return s.Attributes[strings.ToLower(name)]
}

// LocatorCandidate is one synthesized selector, ranked within its family.
// Lower rank means stronger/preferred. Candidates are never mutated.
type LocatorCandidate struct {
	Family   LocatorFamily
	Selector string
	Rank     int
}

type LocatorStatus string

const (
	StatusUnique      LocatorStatus = "unique"
	StatusNonUnique   LocatorStatus = "non_unique"
	StatusUnavailable LocatorStatus = "unavailable"
	StatusFailed      LocatorStatus = "failed"
)

// ResolvedLocator is the outcome of resolving one family for one element.
type ResolvedLocator struct {
	Status   LocatorStatus `json:"status"`
	Selector string        `json:"selector,omitempty"`
	// Matches carries the live match count for non-unique results.
	Matches int `json:"matches,omitempty"`
}

func Unique(selector string) ResolvedLocator {
	return ResolvedLocator{Status: StatusUnique, Selector: selector, Matches: 1}
}

func NonUnique(selector string, matches int) ResolvedLocator {
	return ResolvedLocator{Status: StatusNonUnique, Selector: selector, Matches: matches}
}

func Unavailable() ResolvedLocator {
	return ResolvedLocator{Status: StatusUnavailable}
}

func Failed() ResolvedLocator {
	return ResolvedLocator{Status: StatusFailed}
}

// RoleQuery is an accessible-role locator: find by role, optionally by
// accessible name, exact or substring match. It travels through the
// uniqueness oracle encoded as a selector string so the role family shares
// the same evaluation contract as xpath and css.
type RoleQuery struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Exact bool   `json:"-"`
}

func (q RoleQuery) Encode() string {
	if q.Name == "" {
		return fmt.Sprintf("role=%s", q.Role)
	}

	op := "*="
	if q.Exact {
		op = "="
	}

	return fmt.Sprintf("role=%s[name%s%s]", q.Role, op, quoteRoleName(q.Name))
}

func quoteRoleName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "\\'") + "'"
}

// ParseRoleQuery decodes a role-family selector produced by Encode.
func ParseRoleQuery(selector string) (RoleQuery, error) {
	rest, ok := strings.CutPrefix(selector, "role=")
	if !ok {
		return RoleQuery{}, fmt.Errorf("not a role selector: %q", selector)
	}

	open := strings.Index(rest, "[name")
	if open < 0 {
		if rest == "" {
			return RoleQuery{}, fmt.Errorf("empty role in selector: %q", selector)
		}

		return RoleQuery{Role: rest}, nil
	}

	q := RoleQuery{Role: rest[:open]}
	if q.Role == "" {
		return RoleQuery{}, fmt.Errorf("empty role in selector: %q", selector)
	}

	body := rest[open+len("[name"):]
	switch {
	case strings.HasPrefix(body, "*="):
		body = body[2:]
	case strings.HasPrefix(body, "="):
		q.Exact = true
		body = body[1:]
	default:
		return RoleQuery{}, fmt.Errorf("malformed role name predicate: %q", selector)
	}

	if len(body) < 3 || body[0] != '\'' || !strings.HasSuffix(body, "']") {
		return RoleQuery{}, fmt.Errorf("malformed role name literal: %q", selector)
	}

	q.Name = strings.ReplaceAll(body[1:len(body)-2], "\\'", "'")

	return q, nil
}

// ScanEntry is one element's resolved locators, in the stable reporting
// vocabulary: index, tag, text, id, xpath, css, role.
type ScanEntry struct {
	Index int    `json:"index"`
	Tag   string `json:"tag"`
	Text  string `json:"text,omitempty"`
	// Attributes preserves the snapshot's attribute map for downstream
	// consumers such as the page-object generator.
	Attributes map[string]string `json:"attributes,omitempty"`
	// ID is set only when the element's id attribute is globally unique
	// in the document.
	ID    string          `json:"id,omitempty"`
	XPath ResolvedLocator `json:"xpath"`
	CSS   ResolvedLocator `json:"css"`
	Role  ResolvedLocator `json:"role"`
	// RoleQuery is the structured form behind Role when a role was inferred.
	RoleQuery *RoleQuery `json:"role_query,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// ScanResult is one point-in-time scan of a document, entries in DOM
// traversal order. Created fresh per scan, never cached across scans.
type ScanResult struct {
	ID        uuid.UUID   `json:"scan_id"`
	URL       string      `json:"url,omitempty"`
	Title     string      `json:"title,omitempty"`
	StartedAt time.Time   `json:"started_at"`
	Entries   []ScanEntry `json:"elements"`
}
