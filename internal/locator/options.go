package locator

import (
	"time"

	"loc8r/internal/config"
	"loc8r/internal/entity"
)

// Options are the synthesis knobs, injected rather than package constants
// so the engine stays testable with different priority lists.
type Options struct {
	StrongAttributes []string
	OracleTimeout    time.Duration
	MaxTextLength    int
	MaxAttrLength    int
}

func DefaultOptions() Options {
	return Options{
		StrongAttributes: []string{"data-testid", "data-test", "data-qa", "name", "aria-label", "title"},
		OracleTimeout:    3 * time.Second,
		MaxTextLength:    60,
		MaxAttrLength:    120,
	}
}

func OptionsFromConfig(cfg *config.ScanConfig) Options {
	opts := DefaultOptions()

	if cfg == nil {
		return opts
	}

	if len(cfg.StrongAttributes) > 0 {
		opts.StrongAttributes = cfg.StrongAttributes
	}

	if cfg.OracleTimeout > 0 {
		opts.OracleTimeout = time.Duration(cfg.OracleTimeout) * time.Millisecond
	}

	if cfg.MaxTextLength > 0 {
		opts.MaxTextLength = cfg.MaxTextLength
	}

	if cfg.MaxAttrLength > 0 {
		opts.MaxAttrLength = cfg.MaxAttrLength
	}

	return opts
}

type attrValue struct {
	name  string
	value string
}

// strongAttrs returns the element's strong attributes in priority order,
// skipping empty and oversized values.
func (o Options) strongAttrs(attrs map[string]string) []attrValue {
	var out []attrValue

	for _, name := range o.StrongAttributes {
		v := attrs[name]
		if v == "" || len(v) > o.MaxAttrLength {
			continue
		}

		out = append(out, attrValue{name: name, value: v})
	}

	return out
}

// stableAncestor finds the nearest ancestor usable as a scoping anchor:
// one bearing its own id or a strong attribute.
func (o Options) stableAncestor(ancestors []entity.AncestorSnapshot) (entity.AncestorSnapshot, bool) {
	for _, anc := range ancestors {
		if anc.ID != "" && len(anc.ID) <= o.MaxAttrLength {
			return anc, true
		}

		if len(o.strongAttrs(anc.Attributes)) > 0 {
			return anc, true
		}
	}

	return entity.AncestorSnapshot{}, false
}
