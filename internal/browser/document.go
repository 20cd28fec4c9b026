package browser

import (
	"context"
	"fmt"
	"strings"

	"loc8r/internal/entity"
	"loc8r/pkg/apperr"
	"loc8r/pkg/logg"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const pageDocumentName = "PageDocument"

// pageDocument adapts a live playwright page to the Document port: one
// introspection pass for the interactable snapshots plus read-only
// uniqueness counts per candidate selector.
type pageDocument struct {
	page          playwright.Page
	logger        *zap.Logger
	ancestorDepth int
}

func newPageDocument(page playwright.Page, logger *zap.Logger, ancestorDepth int) *pageDocument {
	return &pageDocument{
		page:          page,
		logger:        logger.With(zap.String(logg.Layer, pageDocumentName)),
		ancestorDepth: ancestorDepth,
	}
}

func (d *pageDocument) Interactables(ctx context.Context) ([]entity.ElementSnapshot, error) {
	const op = "Interactables"

	result, err := d.page.Evaluate(getInteractablesScript(d.ancestorDepth))
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeDocumentUnavailable, err, map[string]any{
			apperr.MetaReason: "evaluate_failed",
			apperr.MetaStage:  apperr.StageIntrospect,
		})
	}

	items, ok := result.([]interface{})
	if !ok {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeInternal, "unexpected_result_type")
	}

	snapshots := make([]entity.ElementSnapshot, 0, len(items))

	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		snap := entity.ElementSnapshot{
			Tag:          getString(m, "tag"),
			ID:           getString(m, "id"),
			Text:         strings.TrimSpace(getString(m, "text")),
			Label:        getString(m, "label"),
			LabelFor:     getBool(m, "labelFor"),
			TagIndex:     getInt(m, "tagIndex"),
			SiblingIndex: getInt(m, "siblingIndex"),
			Visible:      getBool(m, "visible"),
			Clickable:    getBool(m, "clickable"),
			Attributes:   getStringMap(m, "attrs"),
		}

		if classes, ok := m["classes"].([]interface{}); ok {
			for _, c := range classes {
				if s, ok := c.(string); ok {
					snap.Classes = append(snap.Classes, s)
				}
			}
		}

		if ancestors, ok := m["ancestors"].([]interface{}); ok {
			for _, a := range ancestors {
				am, ok := a.(map[string]interface{})
				if !ok {
					continue
				}

				snap.Ancestors = append(snap.Ancestors, entity.AncestorSnapshot{
					Tag:        getString(am, "tag"),
					ID:         getString(am, "id"),
					Attributes: getStringMap(am, "attrs"),
					Direct:     getBool(am, "direct"),
				})
			}
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

// Count evaluates one candidate against the live page. The context bound
// keeps a stuck evaluation from hanging the scan; a timed-out or failed
// evaluation is an error, never a crash.
func (d *pageDocument) Count(ctx context.Context, family entity.LocatorFamily, selector string) (int, error) {
	const op = "Count"

	type outcome struct {
		n   int
		err error
	}

	ch := make(chan outcome, 1)

	go func() {
		n, err := d.countNow(family, selector)
		ch <- outcome{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return -1, apperr.Wrap(op, apperr.CodeTimeout, ctx.Err(), map[string]any{
			apperr.MetaReason:   "oracle_timeout",
			apperr.MetaStage:    apperr.StageOracle,
			apperr.MetaFamily:   string(family),
			apperr.MetaSelector: selector,
		})
	case r := <-ch:
		if r.err != nil {
			return -1, apperr.Wrap(op, apperr.CodeEvaluationFailed, r.err, map[string]any{
				apperr.MetaReason:   "evaluation_failed",
				apperr.MetaStage:    apperr.StageOracle,
				apperr.MetaFamily:   string(family),
				apperr.MetaSelector: selector,
			})
		}

		return r.n, nil
	}
}

func (d *pageDocument) countNow(family entity.LocatorFamily, selector string) (int, error) {
	switch family {
	case entity.FamilyXPath:
		return d.page.Locator("xpath=" + selector).Count()
	case entity.FamilyCSS:
		return d.page.Locator("css=" + selector).Count()
	case entity.FamilyRole:
		q, err := entity.ParseRoleQuery(selector)
		if err != nil {
			return 0, err
		}

		opts := playwright.PageGetByRoleOptions{}
		if q.Name != "" {
			opts.Name = q.Name
			opts.Exact = playwright.Bool(q.Exact)
		}

		return d.page.GetByRole(playwright.AriaRole(q.Role), opts).Count()
	}

	return 0, fmt.Errorf("unknown locator family: %s", family)
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}

func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}

	return false
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}

	if v, ok := m[key].(int); ok {
		return v
	}

	return 0
}

func getStringMap(m map[string]interface{}, key string) map[string]string {
	out := make(map[string]string)

	if attrs, ok := m[key].(map[string]interface{}); ok {
		for k, v := range attrs {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	}

	return out
}
