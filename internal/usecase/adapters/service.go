package adapters

import (
	"context"

	"loc8r/internal/entity"
	"loc8r/internal/ports"
)

type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	PageInfo(ctx context.Context) (url string, title string, err error)
	Document(ctx context.Context) (ports.Document, error)
	IsReady() bool
}

type ScanService interface {
	Scan(ctx context.Context) (*entity.ScanResult, error)
	ScanFile(ctx context.Context, path string) (*entity.ScanResult, error)
	Check(ctx context.Context, family entity.LocatorFamily, selector string) (int, error)
}

type CodegenService interface {
	Generate(ctx context.Context, jsonPath, pageName, outDir string) (string, error)
}
