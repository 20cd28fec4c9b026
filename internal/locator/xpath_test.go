package locator

import (
	"testing"

	"loc8r/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectors(cands []entity.LocatorCandidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Selector
	}

	return out
}

func TestXPathIDCandidateFirst(t *testing.T) {
	s := NewXPathSynthesizer(DefaultOptions())

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:        "input",
		ID:         "user-name",
		Attributes: map[string]string{"id": "user-name", "data-testid": "username"},
		TagIndex:   1,
	})

	require.NotEmpty(t, cands)
	assert.Equal(t, "//*[@id='user-name']", cands[0].Selector)
	// A unique id outranks even a strong test attribute.
	assert.Equal(t, "//input[@data-testid='username']", cands[1].Selector)
}

func TestXPathStrongAttributePairs(t *testing.T) {
	s := NewXPathSynthesizer(DefaultOptions())

	cands := s.Candidates(entity.ElementSnapshot{
		Tag: "input",
		Attributes: map[string]string{
			"name":       "email",
			"aria-label": "Email address",
		},
		TagIndex: 3,
	})

	sels := selectors(cands)
	assert.Contains(t, sels, "//input[@name='email']")
	assert.Contains(t, sels, "//input[@aria-label='Email address']")
	assert.Contains(t, sels, "//input[@name='email' and @aria-label='Email address']")
}

func TestXPathTextCandidatesForLinks(t *testing.T) {
	s := NewXPathSynthesizer(DefaultOptions())

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:      "a",
		Text:     "More information",
		TagIndex: 1,
	})

	sels := selectors(cands)
	assert.Equal(t, "//a[normalize-space(.)='More information']", sels[0])
	assert.Contains(t, sels, "//a[contains(normalize-space(.), 'More information')]")
}

func TestXPathNoTextCandidatesForInputs(t *testing.T) {
	s := NewXPathSynthesizer(DefaultOptions())

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:      "input",
		Text:     "stray text",
		TagIndex: 1,
	})

	for _, sel := range selectors(cands) {
		assert.NotContains(t, sel, "normalize-space(.)=", "inputs must not be text-anchored: %s", sel)
	}
}

func TestXPathLabelCandidates(t *testing.T) {
	s := NewXPathSynthesizer(DefaultOptions())

	wrapped := s.Candidates(entity.ElementSnapshot{
		Tag:      "input",
		Label:    "Email",
		LabelFor: false,
		TagIndex: 1,
	})
	assert.Contains(t, selectors(wrapped),
		"//input[ancestor-or-self::*[self::label][normalize-space(.)='Email']]")

	forAssoc := s.Candidates(entity.ElementSnapshot{
		Tag:      "input",
		ID:       "email",
		Label:    "Email",
		LabelFor: true,
		TagIndex: 1,
	})
	assert.Contains(t, selectors(forAssoc),
		"//input[@id=//label[normalize-space(.)='Email']/@for]")
}

func TestXPathAncestorScoped(t *testing.T) {
	s := NewXPathSynthesizer(DefaultOptions())

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:  "button",
		Text: "Save",
		Ancestors: []entity.AncestorSnapshot{
			{Tag: "div", Direct: true},
			{Tag: "div", ID: "sidebar"},
		},
		TagIndex: 2,
	})

	assert.Contains(t, selectors(cands),
		"//*[@id='sidebar']//button[contains(normalize-space(.), 'Save')]")
}

func TestXPathPositionalFallbackAlwaysLast(t *testing.T) {
	s := NewXPathSynthesizer(DefaultOptions())

	cases := []entity.ElementSnapshot{
		{Tag: "button", TagIndex: 4},
		{Tag: "a", ID: "x", Text: "y", TagIndex: 1},
		{Tag: "input", Attributes: map[string]string{"name": "q"}, TagIndex: 7},
	}

	for _, el := range cases {
		cands := s.Candidates(el)
		require.NotEmpty(t, cands)

		last := cands[len(cands)-1].Selector
		assert.Regexp(t, `^\(//[a-z]+\)\[\d+\]$`, last)
	}
}

func TestXPathAncestorIDBeyondCapUsesStrongAttribute(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxAttrLength = 8

	s := NewXPathSynthesizer(opts)

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:  "button",
		Text: "Save",
		Ancestors: []entity.AncestorSnapshot{
			{
				Tag:        "div",
				ID:         "generated-id-far-beyond-the-cap",
				Attributes: map[string]string{"data-qa": "panel"},
				Direct:     true,
			},
		},
		TagIndex: 1,
	})

	sels := selectors(cands)
	assert.Contains(t, sels, "//div[@data-qa='panel']//button[contains(normalize-space(.), 'Save')]")

	for _, sel := range sels {
		assert.NotContains(t, sel, "generated-id", "over-long ancestor id must not be emitted: %s", sel)
	}
}

func TestXPathLiteralEscaping(t *testing.T) {
	assert.Equal(t, "'plain'", XPathLiteral("plain"))
	assert.Equal(t, `"it's"`, XPathLiteral("it's"))
	assert.Equal(t, `'say "hi"'`, XPathLiteral(`say "hi"`))
	assert.Equal(t, `concat('it',"'",'s "x"')`, XPathLiteral(`it's "x"`))
}

func TestStrongAttributeValueLengthCap(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxAttrLength = 10

	s := NewXPathSynthesizer(opts)

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:        "input",
		Attributes: map[string]string{"name": "this value is far too long to be useful"},
		TagIndex:   1,
	})

	for _, sel := range selectors(cands) {
		assert.NotContains(t, sel, "@name=")
	}
}
