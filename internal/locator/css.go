package locator

import (
	"fmt"

	"loc8r/internal/entity"
)

// CSSSynthesizer mirrors the XPath precedence in CSS idiom. CSS has no
// text-content predicate, so text-anchored candidates exist only in the
// XPath family.
type CSSSynthesizer struct {
	opts Options
}

func NewCSSSynthesizer(opts Options) *CSSSynthesizer {
	return &CSSSynthesizer{opts: opts}
}

func (s *CSSSynthesizer) Family() entity.LocatorFamily {
	return entity.FamilyCSS
}

func (s *CSSSynthesizer) Candidates(el entity.ElementSnapshot) []entity.LocatorCandidate {
	tag := el.Tag
	if tag == "" {
		tag = "*"
	}

	var out []entity.LocatorCandidate
	add := func(selector string) {
		out = append(out, entity.LocatorCandidate{
			Family:   entity.FamilyCSS,
			Selector: selector,
			Rank:     len(out),
		})
	}

	if el.ID != "" {
		add(idSelector(el.ID))
	}

	strong := s.opts.strongAttrs(el.Attributes)
	for _, a := range strong {
		add(fmt.Sprintf(`%s[%s="%s"]`, tag, a.name, CSSEscape(a.value)))
	}

	for i := 0; i < len(strong); i++ {
		for j := i + 1; j < len(strong); j++ {
			add(fmt.Sprintf(`%s[%s="%s"][%s="%s"]`,
				tag,
				strong[i].name, CSSEscape(strong[i].value),
				strong[j].name, CSSEscape(strong[j].value)))
		}
	}

	anc, scoped := s.opts.stableAncestor(el.Ancestors)
	if scoped {
		child := tag
		if len(strong) > 0 {
			for _, a := range strong {
				child += fmt.Sprintf(`[%s="%s"]`, a.name, CSSEscape(a.value))
			}
		}

		add(s.ancestorSelector(anc) + combinator(anc) + child)
	}

	// nth-of-type fallback under the nearest stable ancestor or body.
	k := el.SiblingIndex
	if k < 1 {
		k = 1
	}

	base := "body"
	comb := " "
	if scoped {
		base = s.ancestorSelector(anc)
		comb = combinator(anc)
	}

	add(fmt.Sprintf("%s%s%s:nth-of-type(%d)", base, comb, tag, k))

	return out
}

func (s *CSSSynthesizer) ancestorSelector(anc entity.AncestorSnapshot) string {
	if anc.ID != "" && len(anc.ID) <= s.opts.MaxAttrLength {
		return idSelector(anc.ID)
	}

	tag := anc.Tag
	if tag == "" {
		tag = "*"
	}

	a := s.opts.strongAttrs(anc.Attributes)[0]

	return fmt.Sprintf(`%s[%s="%s"]`, tag, a.name, CSSEscape(a.value))
}

func idSelector(id string) string {
	if IsCSSIdentifier(id) {
		return "#" + id
	}

	return fmt.Sprintf(`[id="%s"]`, CSSEscape(id))
}

func combinator(anc entity.AncestorSnapshot) string {
	if anc.Direct {
		return " > "
	}

	return " "
}
