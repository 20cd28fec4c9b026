package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig     *AppConfig
	BrowserConfig *BrowserConfig
	ScanConfig    *ScanConfig
	CodegenConfig *CodegenConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type BrowserConfig struct {
	Headless    bool   `envconfig:"BROWSER_HEADLESS" default:"false"`
	SlowMo      int    `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout     int    `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	UserDataDir string `envconfig:"BROWSER_USER_DATA_DIR" default:""`
}

type ScanConfig struct {
	// Attributes conventionally stable across refactors, strongest first.
	StrongAttributes []string `envconfig:"SCAN_STRONG_ATTRIBUTES" default:"data-testid,data-test,data-qa,name,aria-label,title"`
	OracleTimeout    int      `envconfig:"SCAN_ORACLE_TIMEOUT" default:"3000"`
	MaxTextLength    int      `envconfig:"SCAN_MAX_TEXT_LENGTH" default:"60"`
	MaxAttrLength    int      `envconfig:"SCAN_MAX_ATTR_LENGTH" default:"120"`
	AncestorDepth    int      `envconfig:"SCAN_ANCESTOR_DEPTH" default:"10"`
}

type CodegenConfig struct {
	Package          string `envconfig:"CODEGEN_PACKAGE" default:"com.example.pages"`
	OutputDir        string `envconfig:"CODEGEN_OUTPUT_DIR" default:"src/test/java"`
	TimeoutSeconds   int    `envconfig:"CODEGEN_TIMEOUT_SECONDS" default:"5"`
	AnnotationImport string `envconfig:"CODEGEN_NAME_ANNOTATION_IMPORT" default:"com.example.annotations.Name"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
