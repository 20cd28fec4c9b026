package locator

import (
	"context"
	"fmt"

	"loc8r/internal/entity"
	"loc8r/internal/ports"
	"loc8r/pkg/logg"

	"go.uber.org/zap"
)

const resolverName = "LocatorResolver"

// Resolver orchestrates the three synthesizers against the uniqueness
// oracle: candidates are evaluated in rank order, evaluation errors skip
// the candidate, and the first selector matching exactly one node wins.
type Resolver struct {
	logger *zap.Logger
	opts   Options
	xpath  *XPathSynthesizer
	css    *CSSSynthesizer
	role   *RoleSynthesizer
}

func NewResolver(logger *zap.Logger, opts Options) *Resolver {
	return &Resolver{
		logger: logger.With(zap.String(logg.Layer, resolverName)),
		opts:   opts,
		xpath:  NewXPathSynthesizer(opts),
		css:    NewCSSSynthesizer(opts),
		role:   NewRoleSynthesizer(opts),
	}
}

// ResolveElement computes the full ScanEntry for one snapshot. It never
// returns an error: per-family failures are encoded in the entry so one
// element cannot abort the scan of the rest.
func (r *Resolver) ResolveElement(ctx context.Context, oracle ports.Oracle, index int, el entity.ElementSnapshot) entity.ScanEntry {
	entry := entity.ScanEntry{
		Index:      index,
		Tag:        el.Tag,
		Text:       el.Text,
		Attributes: el.Attributes,
	}

	entry.ID = r.resolveID(ctx, oracle, el)
	entry.XPath = r.resolveFamily(ctx, oracle, entity.FamilyXPath, r.xpath.Candidates(el))
	entry.CSS = r.resolveFamily(ctx, oracle, entity.FamilyCSS, r.css.Candidates(el))
	entry.Role = r.resolveFamily(ctx, oracle, entity.FamilyRole, r.role.Candidates(el))

	if entry.Role.Selector != "" {
		if q, err := entity.ParseRoleQuery(entry.Role.Selector); err == nil {
			entry.RoleQuery = &q
		}
	}

	// The positional fallbacks always match the snapshotted element, so
	// both families failing means the document changed under the scan.
	if entry.XPath.Status == entity.StatusFailed && entry.CSS.Status == entity.StatusFailed {
		entry.Error = "element no longer present: document changed between snapshot and evaluation"
	}

	return entry
}

// resolveID reports the element's id only when it is globally unique in
// the document.
func (r *Resolver) resolveID(ctx context.Context, oracle ports.Oracle, el entity.ElementSnapshot) string {
	if el.ID == "" {
		return ""
	}

	selector := fmt.Sprintf("//*[@id=%s]", XPathLiteral(el.ID))

	count, err := r.count(ctx, oracle, entity.FamilyXPath, selector)
	if err != nil || count != 1 {
		return ""
	}

	return el.ID
}

func (r *Resolver) resolveFamily(ctx context.Context, oracle ports.Oracle, family entity.LocatorFamily, candidates []entity.LocatorCandidate) entity.ResolvedLocator {
	if len(candidates) == 0 {
		return entity.Unavailable()
	}

	type matched struct {
		selector string
		count    int
	}

	var (
		last     *matched
		smallest *matched
	)

	for i, cand := range candidates {
		count, err := r.count(ctx, oracle, family, cand.Selector)
		if err != nil {
			r.logger.Debug("candidate evaluation skipped",
				zap.String(logg.Family, string(family)),
				zap.String(logg.Selector, cand.Selector),
				zap.Error(err))

			continue
		}

		if count == 1 {
			return entity.Unique(cand.Selector)
		}

		if count > 1 {
			m := &matched{selector: cand.Selector, count: count}

			if smallest == nil || count < smallest.count {
				smallest = m
			}

			if i == len(candidates)-1 {
				last = m
			}
		}
	}

	// No unique candidate: surface the index-based fallback with its match
	// count rather than discarding it. The fallback matching zero nodes
	// means the DOM changed between snapshot and evaluation.
	if last != nil {
		return entity.NonUnique(last.selector, last.count)
	}

	if smallest != nil {
		return entity.NonUnique(smallest.selector, smallest.count)
	}

	return entity.Failed()
}

func (r *Resolver) count(ctx context.Context, oracle ports.Oracle, family entity.LocatorFamily, selector string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.OracleTimeout)
	defer cancel()

	return oracle.Count(ctx, family, selector)
}
