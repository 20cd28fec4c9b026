package usecase

import (
	"context"

	"loc8r/internal/codegen"
	"loc8r/internal/config"
	"loc8r/pkg/apperr"
	"loc8r/pkg/logg"
	"loc8r/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	codegenServiceName = "CodegenService"
	codegenTracer      = "usecase.codegen"
)

// CodegenService turns saved scan JSON into Java PageFactory page objects.
type CodegenService struct {
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer
}

type CodegenServiceParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewCodegenService(params CodegenServiceParams) *CodegenService {
	return &CodegenService{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, codegenServiceName)),
		tracer: otel.Tracer(codegenTracer),
	}
}

func (s *CodegenService) Generate(ctx context.Context, jsonPath, pageName, outDir string) (outPath string, err error) {
	const op = "Generate"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Path, jsonPath))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("json_path", jsonPath),
		attribute.String("page_name", pageName))
	defer func() {
		step.End(err)
	}()

	if pageName == "" {
		return "", apperr.WrapErrorWithReason(op, apperr.CodeInvalidArgument, "page_name_required")
	}

	cfg := s.config.CodegenConfig
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	outPath, err = codegen.GenerateFile(jsonPath, codegen.Options{
		Package:          cfg.Package,
		PageName:         pageName,
		OutputDir:        outDir,
		TimeoutSeconds:   cfg.TimeoutSeconds,
		AnnotationImport: cfg.AnnotationImport,
	})
	if err != nil {
		return "", apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "generation_failed",
			apperr.MetaStage:  apperr.StageCodegen,
			apperr.MetaPath:   jsonPath,
		})
	}

	logger.Info("Page object generated", zap.String("output", outPath))

	return outPath, nil
}
