package htmldoc

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"loc8r/internal/entity"
	"loc8r/internal/locator"
	"loc8r/pkg/apperr"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// interactableSelector mirrors the live-page predicate so file scans see
// the same element set a browser scan would.
const interactableSelector = `a[href], button, input:not([type='hidden']), select, textarea, [role='button'], [tabindex], [contenteditable='true']`

// Document implements the Document port over parsed static HTML. It backs
// the console's file command and lets the engine be exercised end to end
// without a browser.
type Document struct {
	root          *html.Node
	doc           *goquery.Document
	ancestorDepth int
}

func New(r io.Reader, ancestorDepth int) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	if ancestorDepth <= 0 {
		ancestorDepth = 10
	}

	return &Document{
		root:          root,
		doc:           goquery.NewDocumentFromNode(root),
		ancestorDepth: ancestorDepth,
	}, nil
}

func Open(path string, ancestorDepth int) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html file: %w", err)
	}
	defer f.Close()

	return New(f, ancestorDepth)
}

func (d *Document) Interactables(ctx context.Context) ([]entity.ElementSnapshot, error) {
	var snapshots []entity.ElementSnapshot

	tagOrdinals := d.tagOrdinals()

	d.doc.Find(interactableSelector).Each(func(_ int, sel *goquery.Selection) {
		n := sel.Get(0)
		if n == nil {
			return
		}

		snapshots = append(snapshots, d.snapshot(n, tagOrdinals))
	})

	return snapshots, nil
}

// Count evaluates a candidate selector against the parsed document. A
// selector that fails to compile is an evaluation error, distinct from
// matching zero nodes.
func (d *Document) Count(ctx context.Context, family entity.LocatorFamily, selector string) (int, error) {
	const op = "Count"

	if err := ctx.Err(); err != nil {
		return -1, apperr.Wrap(op, apperr.CodeCancelled, err, map[string]any{
			apperr.MetaSelector: selector,
		})
	}

	switch family {
	case entity.FamilyCSS:
		matcher, err := cascadia.Compile(selector)
		if err != nil {
			return -1, apperr.Wrap(op, apperr.CodeEvaluationFailed, err, map[string]any{
				apperr.MetaReason:   "bad_css_selector",
				apperr.MetaSelector: selector,
			})
		}

		return len(matcher.MatchAll(d.root)), nil
	case entity.FamilyXPath:
		nodes, err := htmlquery.QueryAll(d.root, selector)
		if err != nil {
			return -1, apperr.Wrap(op, apperr.CodeEvaluationFailed, err, map[string]any{
				apperr.MetaReason:   "bad_xpath",
				apperr.MetaSelector: selector,
			})
		}

		return len(nodes), nil
	case entity.FamilyRole:
		q, err := entity.ParseRoleQuery(selector)
		if err != nil {
			return -1, apperr.Wrap(op, apperr.CodeEvaluationFailed, err, map[string]any{
				apperr.MetaReason:   "bad_role_query",
				apperr.MetaSelector: selector,
			})
		}

		return d.countRole(q), nil
	}

	return -1, apperr.WrapErrorWithReason(op, apperr.CodeInvalidArgument, "unknown_family")
}

// countRole walks every element and applies the same role/name inference
// the role synthesizer uses, so offline counts agree with what was
// synthesized. Name matching follows the live engine: exact matches are
// case-sensitive, substring matches are case-insensitive.
func (d *Document) countRole(q entity.RoleQuery) int {
	count := 0
	tagOrdinals := d.tagOrdinals()

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			snap := d.snapshot(n, tagOrdinals)
			if role := locator.InferRole(snap); role == q.Role {
				if q.Name == "" {
					count++
				} else {
					name := locator.AccessibleName(snap, role)
					if matchesName(name, q.Name, q.Exact) {
						count++
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)

	return count
}

func matchesName(name, want string, exact bool) bool {
	if name == "" {
		return false
	}

	if exact {
		return name == want
	}

	return strings.Contains(strings.ToLower(name), strings.ToLower(want))
}

// tagOrdinals assigns each element its 1-based document-order index among
// elements of the same tag, backing the (//tag)[k] fallback.
func (d *Document) tagOrdinals() map[*html.Node]int {
	ordinals := make(map[*html.Node]int)
	perTag := make(map[string]int)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			perTag[n.Data]++
			ordinals[n] = perTag[n.Data]
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)

	return ordinals
}

func (d *Document) snapshot(n *html.Node, tagOrdinals map[*html.Node]int) entity.ElementSnapshot {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}

	snap := entity.ElementSnapshot{
		Tag:          n.Data,
		ID:           attrs["id"],
		Attributes:   attrs,
		Text:         locator.NormalizeText(htmlquery.InnerText(n)),
		TagIndex:     tagOrdinals[n],
		SiblingIndex: siblingIndex(n),
		Visible:      true,
		Clickable:    isClickableTag(n.Data, attrs),
	}

	if cls := attrs["class"]; cls != "" {
		snap.Classes = strings.Fields(cls)
	}

	snap.Label, snap.LabelFor = d.labelText(n, snap.ID)
	snap.Ancestors = ancestorChain(n, d.ancestorDepth)

	return snap
}

func (d *Document) labelText(n *html.Node, id string) (string, bool) {
	if id != "" {
		var text string

		d.doc.Find("label[for]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if forID, _ := sel.Attr("for"); forID == id {
				text = locator.NormalizeText(sel.Text())

				return false
			}

			return true
		})

		if text != "" {
			return text, true
		}
	}

	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "label" {
			return locator.NormalizeText(htmlquery.InnerText(p)), false
		}
	}

	return "", false
}

func ancestorChain(n *html.Node, depth int) []entity.AncestorSnapshot {
	strong := []string{"data-testid", "data-test", "data-qa", "name", "aria-label", "title"}

	var out []entity.AncestorSnapshot
	direct := true

	for p := n.Parent; p != nil && len(out) < depth; p = p.Parent {
		if p.Type != html.ElementNode || p.Data == "html" {
			break
		}

		attrs := make(map[string]string)
		var id string

		for _, a := range p.Attr {
			key := strings.ToLower(a.Key)
			if key == "id" {
				id = a.Val
			}

			for _, s := range strong {
				if key == s {
					attrs[key] = a.Val
				}
			}
		}

		out = append(out, entity.AncestorSnapshot{
			Tag:        p.Data,
			ID:         id,
			Attributes: attrs,
			Direct:     direct,
		})

		direct = false
	}

	return out
}

func siblingIndex(n *html.Node) int {
	k := 1

	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode && prev.Data == n.Data {
			k++
		}
	}

	return k
}

func isClickableTag(tag string, attrs map[string]string) bool {
	switch tag {
	case "a", "button", "select":
		return true
	case "input":
		return attrs["type"] != "hidden"
	}

	return attrs["role"] == "button"
}
