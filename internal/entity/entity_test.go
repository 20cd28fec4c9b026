package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleQueryEncode(t *testing.T) {
	assert.Equal(t, "role=button", RoleQuery{Role: "button"}.Encode())
	assert.Equal(t, "role=link[name='More information']",
		RoleQuery{Role: "link", Name: "More information", Exact: true}.Encode())
	assert.Equal(t, "role=link[name*='More']",
		RoleQuery{Role: "link", Name: "More"}.Encode())
	assert.Equal(t, `role=button[name='It\'s fine']`,
		RoleQuery{Role: "button", Name: "It's fine", Exact: true}.Encode())
}

func TestParseRoleQueryRoundTrip(t *testing.T) {
	queries := []RoleQuery{
		{Role: "button"},
		{Role: "link", Name: "More information", Exact: true},
		{Role: "textbox", Name: "Email"},
		{Role: "button", Name: "It's fine", Exact: true},
	}

	for _, q := range queries {
		parsed, err := ParseRoleQuery(q.Encode())
		require.NoError(t, err)
		assert.Equal(t, q, parsed)
	}
}

func TestParseRoleQueryRejectsMalformed(t *testing.T) {
	for _, sel := range []string{
		"",
		"button",
		"role=",
		"role=[name='x']",
		"role=button[name~'x']",
		"role=button[name='x",
	} {
		_, err := ParseRoleQuery(sel)
		assert.Error(t, err, "selector %q", sel)
	}
}

func TestSnapshotAttrCaseInsensitive(t *testing.T) {
	el := ElementSnapshot{Attributes: map[string]string{"aria-label": "Send"}}

	assert.Equal(t, "Send", el.Attr("aria-label"))
	assert.Equal(t, "Send", el.Attr("Aria-Label"))
	assert.Equal(t, "", ElementSnapshot{}.Attr("href"))
}
