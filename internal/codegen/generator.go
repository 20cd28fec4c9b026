package codegen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"loc8r/internal/entity"
)

// Options configure one generation run.
type Options struct {
	Package          string
	PageName         string
	OutputDir        string
	TimeoutSeconds   int
	AnnotationImport string
	SourcePath       string
}

// FieldDef is one generated @FindBy field.
type FieldDef struct {
	Name        string
	DisplayName string
	FindByAttr  string
	FindByValue string
}

const pageObjectTemplate = `package {{.Package}};

import org.openqa.selenium.WebElement;
import org.openqa.selenium.support.FindBy;
import {{.AnnotationImport}};

{{if .SourcePath}}// Generated from scan results: {{.SourcePath}}
{{end}}@Name("{{.ProvidedName}}")
public class {{.ClassName}} {

    public static final int TIMEOUT_SECONDS = {{.TimeoutSeconds}};
{{range .Fields}}
    @Name("{{.DisplayName}}")
    @FindBy({{.FindByAttr}} = "{{.FindByValue}}")
    public WebElement {{.Name}};
{{end}}}
`

// ComputeFields turns scan entries into deterministic, deduplicated field
// definitions, skipping elements with no usable locator.
func ComputeFields(entries []entity.ScanEntry) []FieldDef {
	bases := make([]string, len(entries))
	for i, e := range entries {
		bases[i] = FieldBase(e)
	}

	names := DedupeNames(bases)

	fields := make([]FieldDef, 0, len(entries))

	for i, e := range entries {
		fb, ok := PickFindBy(e)
		if !ok {
			continue
		}

		display := attributesOf(e)["name"]
		if display == "" {
			display = e.ID
		}
		if display == "" {
			display = names[i]
		}

		fields = append(fields, FieldDef{
			Name:        names[i],
			DisplayName: display,
			FindByAttr:  fb.Attr,
			FindByValue: fb.Value,
		})
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})

	return fields
}

// Render produces the Java page-object source for the given entries.
func Render(entries []entity.ScanEntry, opts Options) (string, error) {
	tmpl, err := template.New("pageobject").Parse(pageObjectTemplate)
	if err != nil {
		return "", fmt.Errorf("parse page object template: %w", err)
	}

	var b strings.Builder

	err = tmpl.Execute(&b, map[string]any{
		"Package":          opts.Package,
		"ClassName":        ClassName(opts.PageName),
		"ProvidedName":     opts.PageName,
		"Fields":           ComputeFields(entries),
		"TimeoutSeconds":   opts.TimeoutSeconds,
		"AnnotationImport": opts.AnnotationImport,
		"SourcePath":       opts.SourcePath,
	})
	if err != nil {
		return "", fmt.Errorf("render page object: %w", err)
	}

	return b.String(), nil
}

// GenerateFile reads a scan JSON file and writes the page object under the
// package directory structure inside opts.OutputDir, returning the written
// path.
func GenerateFile(jsonPath string, opts Options) (string, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", fmt.Errorf("read scan json: %w", err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return "", err
	}

	opts.SourcePath = jsonPath

	java, err := Render(entries, opts)
	if err != nil {
		return "", err
	}

	targetDir := filepath.Join(opts.OutputDir, filepath.Join(strings.Split(opts.Package, ".")...))
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outPath := filepath.Join(targetDir, ClassName(opts.PageName)+".java")
	if err := os.WriteFile(outPath, []byte(java), 0644); err != nil {
		return "", fmt.Errorf("write page object: %w", err)
	}

	return outPath, nil
}

// decodeEntries accepts either a bare entry array (the saved scan JSON) or
// a full ScanResult object.
func decodeEntries(raw []byte) ([]entity.ScanEntry, error) {
	var entries []entity.ScanEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var result entity.ScanResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode scan json: %w", err)
	}

	return result.Entries, nil
}
