package locator

import (
	"loc8r/internal/entity"
)

// RoleSynthesizer derives an ARIA role locator: explicit role attribute
// first, otherwise a fixed tag/type/href inference map, paired with the
// accessible name. Elements with no inferable role yield no candidates.
type RoleSynthesizer struct {
	opts Options
}

func NewRoleSynthesizer(opts Options) *RoleSynthesizer {
	return &RoleSynthesizer{opts: opts}
}

func (s *RoleSynthesizer) Family() entity.LocatorFamily {
	return entity.FamilyRole
}

// Infer determines the element's ARIA role and accessible name.
func (s *RoleSynthesizer) Infer(el entity.ElementSnapshot) (entity.RoleQuery, bool) {
	role := InferRole(el)
	if role == "" {
		return entity.RoleQuery{}, false
	}

	return entity.RoleQuery{Role: role, Name: AccessibleName(el, role)}, true
}

func (s *RoleSynthesizer) Candidates(el entity.ElementSnapshot) []entity.LocatorCandidate {
	q, ok := s.Infer(el)
	if !ok {
		return nil
	}

	var out []entity.LocatorCandidate
	add := func(query entity.RoleQuery) {
		out = append(out, entity.LocatorCandidate{
			Family:   entity.FamilyRole,
			Selector: query.Encode(),
			Rank:     len(out),
		})
	}

	if q.Name != "" {
		add(entity.RoleQuery{Role: q.Role, Name: q.Name, Exact: true})

		// Substring variant next: the live accessible-name computation can
		// diverge slightly from the snapshot-derived name (aria-labelledby,
		// nested alt text, case), so an exact miss is not yet a role miss.
		short := truncate(q.Name, s.opts.MaxTextLength)
		if short != "" {
			add(entity.RoleQuery{Role: q.Role, Name: short})
		}
	}

	add(entity.RoleQuery{Role: q.Role})

	return out
}

// InferRole maps an element to its ARIA role. The explicit role attribute
// wins; otherwise the mapping follows the HTML-AAM defaults for the tags
// the scanner considers interactable.
func InferRole(el entity.ElementSnapshot) string {
	if role := el.Attr("role"); role != "" {
		return role
	}

	inputType := el.Attr("type")

	switch el.Tag {
	case "button":
		return "button"
	case "a":
		if el.Attr("href") != "" {
			return "link"
		}
	case "input":
		switch inputType {
		case "button", "submit", "reset":
			return "button"
		case "checkbox":
			return "checkbox"
		case "radio":
			return "radio"
		case "", "text", "search", "url", "email", "tel", "password", "number":
			return "textbox"
		}
	case "textarea":
		return "textbox"
	case "select":
		return "combobox"
	case "img":
		return "img"
	}

	if _, ok := el.Attributes["tabindex"]; ok {
		return "generic"
	}

	return ""
}

// AccessibleName resolves the element's accessible name by priority:
// aria-label, title, alt (images), associated label text, then visible
// text for text-anchored roles.
func AccessibleName(el entity.ElementSnapshot, role string) string {
	if v := el.Attr("aria-label"); v != "" {
		return NormalizeText(v)
	}

	if v := el.Attr("title"); v != "" {
		return NormalizeText(v)
	}

	if el.Tag == "img" {
		if v := el.Attr("alt"); v != "" {
			return NormalizeText(v)
		}
	}

	if el.Label != "" {
		return NormalizeText(el.Label)
	}

	if (role == "button" || role == "link") && el.Text != "" {
		return el.Text
	}

	return ""
}
