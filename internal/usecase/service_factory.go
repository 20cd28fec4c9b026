package usecase

import (
	"loc8r/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateScanService() adapters.ScanService {
	return NewScanService(ScanServiceParams{
		Browser: f.deps.Browser,
		Config:  f.deps.Config,
		Logger:  f.deps.Logger,
	})
}

func (f *serviceFactory) CreateCodegenService() adapters.CodegenService {
	return NewCodegenService(CodegenServiceParams{
		Config: f.deps.Config,
		Logger: f.deps.Logger,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
