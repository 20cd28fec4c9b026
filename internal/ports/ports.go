package ports

import (
	"context"

	"loc8r/internal/entity"
)

// Oracle answers "how many nodes does this selector match right now".
// Implementations must never mutate the document; an error means the
// candidate is unusable (malformed selector, detached document, timeout),
// not that the scan should abort.
type Oracle interface {
	Count(ctx context.Context, family entity.LocatorFamily, selector string) (int, error)
}

// Document is one scannable document: enumeration of interactable elements
// plus the uniqueness oracle evaluated against the same document state.
type Document interface {
	Oracle
	Interactables(ctx context.Context) ([]entity.ElementSnapshot, error)
}

type BrowserManager interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	PageInfo(ctx context.Context) (url string, title string, err error)
	Document(ctx context.Context) (Document, error)
	IsReady() bool
}
