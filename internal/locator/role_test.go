package locator

import (
	"testing"

	"loc8r/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferRole(t *testing.T) {
	cases := []struct {
		name string
		el   entity.ElementSnapshot
		want string
	}{
		{"explicit role wins", entity.ElementSnapshot{Tag: "div", Attributes: map[string]string{"role": "button"}}, "button"},
		{"button tag", entity.ElementSnapshot{Tag: "button"}, "button"},
		{"anchor with href", entity.ElementSnapshot{Tag: "a", Attributes: map[string]string{"href": "/x"}}, "link"},
		{"anchor without href", entity.ElementSnapshot{Tag: "a"}, ""},
		{"submit input", entity.ElementSnapshot{Tag: "input", Attributes: map[string]string{"type": "submit"}}, "button"},
		{"checkbox input", entity.ElementSnapshot{Tag: "input", Attributes: map[string]string{"type": "checkbox"}}, "checkbox"},
		{"radio input", entity.ElementSnapshot{Tag: "input", Attributes: map[string]string{"type": "radio"}}, "radio"},
		{"typeless input", entity.ElementSnapshot{Tag: "input"}, "textbox"},
		{"password input", entity.ElementSnapshot{Tag: "input", Attributes: map[string]string{"type": "password"}}, "textbox"},
		{"textarea", entity.ElementSnapshot{Tag: "textarea"}, "textbox"},
		{"select", entity.ElementSnapshot{Tag: "select"}, "combobox"},
		{"image", entity.ElementSnapshot{Tag: "img"}, "img"},
		{"tabindex only", entity.ElementSnapshot{Tag: "div", Attributes: map[string]string{"tabindex": "0"}}, "generic"},
		{"plain div", entity.ElementSnapshot{Tag: "div"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferRole(tc.el))
		})
	}
}

func TestAccessibleNamePriority(t *testing.T) {
	el := entity.ElementSnapshot{
		Tag:  "button",
		Text: "Click",
		Attributes: map[string]string{
			"aria-label": "Submit form",
			"title":      "Tooltip",
		},
	}
	assert.Equal(t, "Submit form", AccessibleName(el, "button"))

	delete(el.Attributes, "aria-label")
	assert.Equal(t, "Tooltip", AccessibleName(el, "button"))

	delete(el.Attributes, "title")
	assert.Equal(t, "Click", AccessibleName(el, "button"))

	img := entity.ElementSnapshot{Tag: "img", Attributes: map[string]string{"alt": "Logo"}}
	assert.Equal(t, "Logo", AccessibleName(img, "img"))

	labeled := entity.ElementSnapshot{Tag: "input", Label: "Email"}
	assert.Equal(t, "Email", AccessibleName(labeled, "textbox"))

	// Visible text names buttons and links, not textboxes.
	textbox := entity.ElementSnapshot{Tag: "input", Text: "oops"}
	assert.Equal(t, "", AccessibleName(textbox, "textbox"))
}

func TestRoleCandidatesOrdering(t *testing.T) {
	s := NewRoleSynthesizer(DefaultOptions())

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:        "a",
		Text:       "More information",
		Attributes: map[string]string{"href": "/more"},
	})

	require.Len(t, cands, 3)
	assert.Equal(t, "role=link[name='More information']", cands[0].Selector)
	assert.Equal(t, "role=link[name*='More information']", cands[1].Selector)
	assert.Equal(t, "role=link", cands[2].Selector)
}

func TestRoleSubstringCandidateBetweenExactAndBare(t *testing.T) {
	s := NewRoleSynthesizer(DefaultOptions())

	// A name within the length cap still gets the substring variant, so a
	// failed exact match does not fall straight through to the bare role.
	cands := s.Candidates(entity.ElementSnapshot{
		Tag:  "button",
		Text: "Save",
	})

	require.Len(t, cands, 3)
	assert.Equal(t, "role=button[name='Save']", cands[0].Selector)
	assert.Equal(t, "role=button[name*='Save']", cands[1].Selector)
	assert.Equal(t, "role=button", cands[2].Selector)
}

func TestRoleCandidatesTruncatedName(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTextLength = 10

	s := NewRoleSynthesizer(opts)

	cands := s.Candidates(entity.ElementSnapshot{
		Tag:  "button",
		Text: "A very long button caption indeed",
	})

	require.Len(t, cands, 3)
	assert.Equal(t, "role=button[name='A very long button caption indeed']", cands[0].Selector)
	assert.Equal(t, "role=button[name*='A very lon']", cands[1].Selector)
	assert.Equal(t, "role=button", cands[2].Selector)
}

func TestRoleCandidatesNoneWithoutRole(t *testing.T) {
	s := NewRoleSynthesizer(DefaultOptions())

	assert.Nil(t, s.Candidates(entity.ElementSnapshot{Tag: "div"}))
}
