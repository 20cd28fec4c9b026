package usecase

import (
	"loc8r/internal/config"
	"loc8r/internal/ports"
	"loc8r/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Scanner adapters.ScanService
	Codegen adapters.CodegenService
	Browser adapters.BrowserService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Config  *config.Config
	Browser ports.BrowserManager
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Scanner: factory.CreateScanService(),
		Codegen: factory.CreateCodegenService(),
		Browser: factory.CreateBrowserService(),
	}
}
