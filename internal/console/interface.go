package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"loc8r/internal/config"
	"loc8r/internal/entity"
	"loc8r/internal/usecase"
	"loc8r/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Interface struct {
	config   *config.Config
	logger   *zap.Logger
	usecase  *usecase.Service
	ctx      context.Context
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	stopping bool
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)

	return &Interface{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:  params.Usecase,
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  sigChan,
		stopping: false,
	}
}

func (i *Interface) Start() error {
	i.printBanner()

	signal.Notify(i.sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-i.sigChan
		fmt.Println("\n\nInterrupt received, exiting...")
		i.stopping = true
		i.Stop()
	}()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		if i.stopping {
			break
		}

		fmt.Print("\nloc8r> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if err.Error() == "exit" {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Printf("Error: %v\n", err)
		}
	}

	return nil
}

func (i *Interface) Stop() error {
	if i.stopping {
		return nil
	}

	i.stopping = true
	i.logger.Info("Stopping console interface...")

	i.cancel()

	fmt.Println("Goodbye!")
	os.Exit(0)

	return nil
}

func (i *Interface) handleCommand(input string) error {
	cmd, arg, _ := strings.Cut(input, " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "help", "h":
		i.printHelp(arg)

		return nil
	case "exit", "quit", "q":
		fmt.Println("Shutting down...")

		return fmt.Errorf("exit")
	case "url":
		return i.navigate(arg)
	case "scan":
		return i.scan(arg)
	case "file":
		return i.scanFile(arg)
	case "check":
		return i.check(arg)
	case "codegen":
		return i.codegen(arg)
	default:
		fmt.Println("Unknown command. Type 'help' for commands.")

		return nil
	}
}

func (i *Interface) navigate(arg string) error {
	if arg == "" {
		fmt.Println("Usage: url https://example.com")

		return nil
	}

	if err := i.usecase.Browser.Navigate(i.ctx, arg); err != nil {
		fmt.Printf("Navigation failed: %v\n", err)

		return nil
	}

	url, _, _ := i.usecase.Browser.PageInfo(i.ctx)
	fmt.Printf("Navigated to %s\n", url)

	return nil
}

func (i *Interface) scan(arg string) error {
	result, err := i.usecase.Scanner.Scan(i.ctx)
	if err != nil {
		fmt.Printf("Scan failed: %v\n", err)

		return nil
	}

	i.printScan(result, arg)

	return nil
}

func (i *Interface) scanFile(arg string) error {
	parts := strings.Fields(arg)
	if len(parts) == 0 {
		fmt.Println("Usage: file <path.html> [output.json]")

		return nil
	}

	result, err := i.usecase.Scanner.ScanFile(i.ctx, parts[0])
	if err != nil {
		fmt.Printf("Scan failed: %v\n", err)

		return nil
	}

	outPath := ""
	if len(parts) > 1 {
		outPath = parts[1]
	}

	i.printScan(result, outPath)

	return nil
}

func (i *Interface) check(arg string) error {
	family, selector, _ := strings.Cut(arg, " ")
	selector = strings.TrimSpace(selector)

	if selector == "" || (family != "xpath" && family != "css" && family != "role") {
		fmt.Println("Usage: check <xpath|css|role> <selector>")

		return nil
	}

	count, err := i.usecase.Scanner.Check(i.ctx, entity.LocatorFamily(family), selector)
	if err != nil {
		fmt.Printf("Check failed: %v\n", err)

		return nil
	}

	switch count {
	case 1:
		fmt.Printf("UNIQUE: %s matches exactly 1 element\n", selector)
	case 0:
		fmt.Printf("NO MATCH: %s matches nothing\n", selector)
	default:
		fmt.Printf("AMBIGUOUS: %s matches %d elements\n", selector, count)
	}

	return nil
}

func (i *Interface) codegen(arg string) error {
	parts := strings.Fields(arg)
	if len(parts) == 0 {
		fmt.Println("Usage: codegen <json> [PageName] [outDir]")
		fmt.Println("For detailed options and examples, type: help codegen")

		return nil
	}

	jsonPath := parts[0]

	pageName := ""
	if len(parts) >= 2 {
		pageName = parts[1]
	}

	outDir := ""
	if len(parts) >= 3 {
		outDir = parts[2]
	}

	if pageName == "" {
		fmt.Print("Provide the page name (e.g., Login): ")

		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Page name is required. Aborting codegen.")

			return nil
		}

		pageName = strings.TrimSpace(line)
	}

	if pageName == "" {
		fmt.Println("Page name is required. Aborting codegen.")

		return nil
	}

	outPath, err := i.usecase.Codegen.Generate(i.ctx, jsonPath, pageName, outDir)
	if err != nil {
		fmt.Printf("Code generation failed: %v\n", err)

		return nil
	}

	fmt.Printf("Generated: %s\n", outPath)

	return nil
}

func (i *Interface) printScan(result *entity.ScanResult, outPath string) {
	fmt.Printf("Found %d interactable elements:\n\n", len(result.Entries))

	for _, e := range result.Entries {
		if e.Error != "" {
			fmt.Printf("#%d: ERROR: %s\n", e.Index, e.Error)

			continue
		}

		text := e.Text
		if len(text) > 120 {
			text = text[:117] + "..."
		}

		fmt.Printf("#%d: <%s> text='%s'\n", e.Index, e.Tag, text)
		fmt.Printf("    id: %s\n", orNone(e.ID))
		fmt.Printf("    xpath: %s\n", formatLocator(e.XPath))
		fmt.Printf("    css: %s\n", formatLocator(e.CSS))
		fmt.Printf("    role: %s\n", formatRole(e))
	}

	data, err := json.MarshalIndent(result.Entries, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode results: %v\n", err)

		return
	}

	fmt.Println("\nJSON output (copy-paste if needed):")
	fmt.Println(string(data))

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			fmt.Printf("Failed to save results to '%s': %v\n", outPath, err)

			return
		}

		fmt.Printf("Saved scan results to: %s\n", outPath)
	}
}

func formatLocator(l entity.ResolvedLocator) string {
	switch l.Status {
	case entity.StatusUnique:
		return l.Selector
	case entity.StatusNonUnique:
		return fmt.Sprintf("%s  [non-unique: %d matches]", l.Selector, l.Matches)
	case entity.StatusUnavailable:
		return "(unavailable)"
	default:
		return "(failed)"
	}
}

func formatRole(e entity.ScanEntry) string {
	if e.RoleQuery == nil {
		return "(unavailable)"
	}

	var expr string
	if e.RoleQuery.Name != "" {
		expr = fmt.Sprintf("get_by_role('%s', name='%s')", e.RoleQuery.Role, e.RoleQuery.Name)
	} else {
		expr = fmt.Sprintf("get_by_role('%s')", e.RoleQuery.Role)
	}

	if e.Role.Status == entity.StatusNonUnique {
		expr += fmt.Sprintf("  [non-unique: %d matches]", e.Role.Matches)
	}

	return expr
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func (i *Interface) printBanner() {
	banner := `
Loc8r Scanner
Commands:
  url <https://...>              -> navigate to a URL in the opened page
  scan [output.json]             -> scan page for interactable elements and print locators
  file <path.html> [output.json] -> scan a static HTML file without the browser
  check <xpath|css|role> <sel>   -> evaluate a selector and report its match count
  codegen <json> [PageName] [outDir] -> generate Java Page Object (@FindBy) from scan JSON
  help [command]                 -> show general help or detailed help for a command
  quit/exit                      -> close browser and exit
`
	fmt.Println(banner)
}

func (i *Interface) printHelp(topic string) {
	topic = strings.ToLower(strings.TrimSpace(topic))

	switch topic {
	case "":
		i.printBanner()
		fmt.Println("Type 'help codegen' for detailed generator usage, or 'help scan' / 'help url'.")
	case "codegen":
		fmt.Print(`
Code generation (PageFactory, @FindBy)
Usage: codegen <json> [PageName] [outDir]
  <json>     Path to a scan JSON file produced by 'scan' or 'file'
  [PageName] Base page name (e.g., Login). The class will be '<Name>Page'. Prompted if omitted.
  [outDir]   Output root (default: src/test/java). Package path is created within it.

Notes:
- Uses stable-first locator priority: data-test/testid -> id -> name -> css -> xpath.
- Package, timeout and @Name annotation import come from CODEGEN_* env vars.
`)
	case "scan":
		fmt.Print(`
Scan current page for interactable elements
Usage: scan [output.json]
  Without argument: prints found elements and their locators (XPath, CSS, id, role).
  With output.json: also saves the JSON results to the given file.
`)
	case "file":
		fmt.Print(`
Scan a static HTML file
Usage: file <path.html> [output.json]
  Runs the same synthesis pipeline against a parsed HTML file, no browser needed.
`)
	case "check":
		fmt.Print(`
Evaluate a selector against the current page
Usage: check <xpath|css|role> <selector>
  Reports whether the selector is unique, ambiguous (with match count) or matches nothing.
  Role selectors use the scanner's encoding, e.g. role=link[name='More information'].
`)
	case "url":
		fmt.Print(`
Navigate to URL in the opened browser
Usage: url <https://...>
  Example: url https://example.com
`)
	case "quit", "exit":
		fmt.Print(`
Exit Loc8r
Usage: quit | exit
  Closes the browser and terminates the session.
`)
	default:
		fmt.Printf("Unknown help topic: %s. Type 'help' to see available commands.\n", topic)
	}
}
