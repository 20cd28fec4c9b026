package locator

import (
	"fmt"
	"strings"

	"loc8r/internal/entity"
)

// XPathSynthesizer produces ordered XPath candidates for an element
// snapshot, strongest first. It is pure: no document access, no oracle
// calls, no mutation of the snapshot.
type XPathSynthesizer struct {
	opts Options
}

func NewXPathSynthesizer(opts Options) *XPathSynthesizer {
	return &XPathSynthesizer{opts: opts}
}

func (s *XPathSynthesizer) Family() entity.LocatorFamily {
	return entity.FamilyXPath
}

func (s *XPathSynthesizer) Candidates(el entity.ElementSnapshot) []entity.LocatorCandidate {
	tag := el.Tag
	if tag == "" {
		tag = "*"
	}

	var out []entity.LocatorCandidate
	add := func(selector string) {
		out = append(out, entity.LocatorCandidate{
			Family:   entity.FamilyXPath,
			Selector: selector,
			Rank:     len(out),
		})
	}

	if el.ID != "" {
		add(fmt.Sprintf("//*[@id=%s]", XPathLiteral(el.ID)))
	}

	strong := s.opts.strongAttrs(el.Attributes)
	for _, a := range strong {
		add(fmt.Sprintf("//%s[@%s=%s]", tag, a.name, XPathLiteral(a.value)))
	}

	for i := 0; i < len(strong); i++ {
		for j := i + 1; j < len(strong); j++ {
			add(fmt.Sprintf("//%s[@%s=%s and @%s=%s]",
				tag,
				strong[i].name, XPathLiteral(strong[i].value),
				strong[j].name, XPathLiteral(strong[j].value)))
		}
	}

	if isTextAnchored(el) && el.Text != "" {
		add(fmt.Sprintf("//%s[normalize-space(.)=%s]", tag, XPathLiteral(el.Text)))

		short := truncate(el.Text, s.opts.MaxTextLength)
		if short != "" {
			add(fmt.Sprintf("//%s[contains(normalize-space(.), %s)]", tag, XPathLiteral(short)))
		}
	}

	if isLabeledControl(el) && el.Label != "" {
		lit := XPathLiteral(el.Label)
		if el.LabelFor {
			add(fmt.Sprintf("//%s[@id=//label[normalize-space(.)=%s]/@for]", tag, lit))
		} else {
			add(fmt.Sprintf("//%s[ancestor-or-self::*[self::label][normalize-space(.)=%s]]", tag, lit))
		}
	}

	if anc, ok := s.opts.stableAncestor(el.Ancestors); ok {
		add(s.ancestorPrefix(anc) + "//" + tag + s.childPredicate(el, strong))
	}

	// Positional fallback, always constructible and always last: the index
	// is captured at introspection time, so this matches the snapshotted
	// element unless the DOM changed underneath the scan.
	k := el.TagIndex
	if k < 1 {
		k = 1
	}

	add(fmt.Sprintf("(//%s)[%d]", tag, k))

	return out
}

func (s *XPathSynthesizer) ancestorPrefix(anc entity.AncestorSnapshot) string {
	// An id beyond the length cap is not a usable anchor; the ancestor was
	// then accepted for a strong attribute, so that is what gets emitted.
	if anc.ID != "" && len(anc.ID) <= s.opts.MaxAttrLength {
		return fmt.Sprintf("//*[@id=%s]", XPathLiteral(anc.ID))
	}

	tag := anc.Tag
	if tag == "" {
		tag = "*"
	}

	a := s.opts.strongAttrs(anc.Attributes)[0]

	return fmt.Sprintf("//%s[@%s=%s]", tag, a.name, XPathLiteral(a.value))
}

func (s *XPathSynthesizer) childPredicate(el entity.ElementSnapshot, strong []attrValue) string {
	if len(strong) > 0 {
		preds := make([]string, 0, len(strong))
		for _, a := range strong {
			preds = append(preds, fmt.Sprintf("@%s=%s", a.name, XPathLiteral(a.value)))
		}

		return "[" + strings.Join(preds, " and ") + "]"
	}

	if el.Text != "" {
		short := truncate(el.Text, s.opts.MaxTextLength)

		return fmt.Sprintf("[contains(normalize-space(.), %s)]", XPathLiteral(short))
	}

	return ""
}

// isTextAnchored reports whether the element's visible text is a sensible
// anchor: links, buttons and button-role elements.
func isTextAnchored(el entity.ElementSnapshot) bool {
	switch el.Tag {
	case "a", "button":
		return true
	}

	return el.Attr("role") == "button"
}

func isLabeledControl(el entity.ElementSnapshot) bool {
	switch el.Tag {
	case "input", "select", "textarea":
		return true
	}

	return false
}
