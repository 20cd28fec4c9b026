package codegen

import (
	"fmt"
	"strings"

	"loc8r/internal/entity"
)

// FindBy is one @FindBy annotation argument: the strategy attribute and
// its escaped value.
type FindBy struct {
	Attr  string
	Value string
}

// PickFindBy chooses the locator strategy for a scanned element using the
// stable-first priority: data-test/data-testid as css, then id, name, the
// resolved css selector, and finally xpath. Returns false when the element
// carries nothing usable.
func PickFindBy(e entity.ScanEntry) (FindBy, bool) {
	attrs := attributesOf(e)

	if v := attrs["data-test"]; v != "" {
		return FindBy{Attr: "css", Value: fmt.Sprintf("[data-test='%s']", EscapeJavaString(v))}, true
	}

	if v := attrs["data-testid"]; v != "" {
		return FindBy{Attr: "css", Value: fmt.Sprintf("[data-testid='%s']", EscapeJavaString(v))}, true
	}

	id := e.ID
	if id == "" {
		id = attrs["id"]
	}
	if id != "" {
		return FindBy{Attr: "id", Value: EscapeJavaString(id)}, true
	}

	if v := attrs["name"]; v != "" {
		return FindBy{Attr: "name", Value: EscapeJavaString(v)}, true
	}

	if e.CSS.Selector != "" {
		return FindBy{Attr: "css", Value: EscapeJavaString(e.CSS.Selector)}, true
	}

	if e.XPath.Selector != "" {
		return FindBy{Attr: "xpath", Value: EscapeJavaString(e.XPath.Selector)}, true
	}

	return FindBy{}, false
}

// EscapeJavaString escapes a value for inclusion inside a double-quoted
// Java string literal.
func EscapeJavaString(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)

	return r.Replace(v)
}

func attributesOf(e entity.ScanEntry) map[string]string {
	if e.Attributes == nil {
		return map[string]string{}
	}

	return e.Attributes
}
