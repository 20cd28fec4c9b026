package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loc8r/internal/config"
	"loc8r/internal/entity"
	"loc8r/internal/htmldoc"
	"loc8r/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBrowser serves a parsed static document through the live-browser
// port, so the full scan pipeline runs without a browser process.
type fakeBrowser struct {
	doc   ports.Document
	ready bool
	url   string
	title string
}

func (f *fakeBrowser) Launch(_ context.Context) error { return nil }
func (f *fakeBrowser) Close(_ context.Context) error  { return nil }

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	f.url = url

	return nil
}

func (f *fakeBrowser) PageInfo(_ context.Context) (string, string, error) {
	return f.url, f.title, nil
}

func (f *fakeBrowser) Document(_ context.Context) (ports.Document, error) {
	return f.doc, nil
}

func (f *fakeBrowser) IsReady() bool { return f.ready }

func testConfig() *config.Config {
	return &config.Config{
		AppConfig: &config.AppConfig{},
		ScanConfig: &config.ScanConfig{
			StrongAttributes: []string{"data-testid", "data-test", "data-qa", "name", "aria-label", "title"},
			OracleTimeout:    3000,
			MaxTextLength:    60,
			MaxAttrLength:    120,
			AncestorDepth:    10,
		},
		CodegenConfig: &config.CodegenConfig{},
	}
}

func newScanServiceOver(t *testing.T, page string) (*ScanService, *fakeBrowser) {
	t.Helper()

	doc, err := htmldoc.New(strings.NewReader(page), 10)
	require.NoError(t, err)

	browser := &fakeBrowser{doc: doc, ready: true, url: "https://example.test/", title: "Test"}

	svc := NewScanService(ScanServiceParams{
		Config:  testConfig(),
		Logger:  zap.NewNop(),
		Browser: browser,
	})

	return svc, browser
}

func entryByIndex(t *testing.T, result *entity.ScanResult, index int) entity.ScanEntry {
	t.Helper()

	for _, e := range result.Entries {
		if e.Index == index {
			return e
		}
	}

	t.Fatalf("no entry with index %d", index)

	return entity.ScanEntry{}
}

func TestScanIDFirstPrecedence(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body>
		<input type="text" id="user-name" data-testid="username">
	</body></html>`)

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)

	entry := result.Entries[0]
	assert.Equal(t, "user-name", entry.ID)
	assert.Equal(t, entity.StatusUnique, entry.XPath.Status)
	assert.Equal(t, "//*[@id='user-name']", entry.XPath.Selector)
	assert.Equal(t, entity.StatusUnique, entry.CSS.Status)
	assert.Equal(t, "#user-name", entry.CSS.Selector)
}

func TestScanTextAnchoredLink(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body>
		<a href="https://example.com/more">More information</a>
	</body></html>`)

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)

	entry := result.Entries[0]
	assert.Equal(t, entity.StatusUnique, entry.XPath.Status)
	assert.Equal(t, "//a[normalize-space(.)='More information']", entry.XPath.Selector)

	assert.Equal(t, entity.StatusUnique, entry.Role.Status)
	assert.Equal(t, "role=link[name='More information']", entry.Role.Selector)

	require.NotNil(t, entry.RoleQuery)
	assert.Equal(t, "link", entry.RoleQuery.Role)
	assert.Equal(t, "More information", entry.RoleQuery.Name)
}

func TestScanDisambiguatesByAncestor(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body>
		<div id="a"><button>Save</button></div>
		<div id="b"><button>Save</button></div>
	</body></html>`)

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	first := entryByIndex(t, result, 1)
	assert.Equal(t, entity.StatusUnique, first.CSS.Status)
	assert.Equal(t, "#a > button", first.CSS.Selector)
	assert.Equal(t, entity.StatusUnique, first.XPath.Status)
	assert.Equal(t, "//*[@id='a']//button[contains(normalize-space(.), 'Save')]", first.XPath.Selector)

	second := entryByIndex(t, result, 2)
	assert.Equal(t, "#b > button", second.CSS.Selector)

	// Both buttons share role and name, so the role family cannot be
	// unique here; it reports the ambiguity instead.
	assert.Equal(t, entity.StatusNonUnique, first.Role.Status)
	assert.Equal(t, 2, first.Role.Matches)
}

func TestScanLabelAssociation(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body><form>
		<label>Email <input type="email"></label>
		<label>Phone <input type="tel"></label>
	</form></body></html>`)

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	email := result.Entries[0]
	assert.Equal(t, entity.StatusUnique, email.XPath.Status)
	assert.Equal(t,
		"//input[ancestor-or-self::*[self::label][normalize-space(.)='Email']]",
		email.XPath.Selector)

	assert.Equal(t, entity.StatusUnique, email.Role.Status)
	assert.Equal(t, "role=textbox[name='Email']", email.Role.Selector)
}

func TestScanFallbackTotality(t *testing.T) {
	// Three indistinguishable buttons: no family can be unique except via
	// position, and every element still gets a selector for each family
	// that applies.
	svc, _ := newScanServiceOver(t, `<html><body>
		<button></button><button></button><button></button>
	</body></html>`)

	result, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)

	for i, entry := range result.Entries {
		assert.Equal(t, entity.StatusUnique, entry.XPath.Status, "entry %d", i)
		assert.Regexp(t, `^\(//button\)\[\d\]$`, entry.XPath.Selector)

		// nth-of-type under body pins each sibling.
		assert.Equal(t, entity.StatusUnique, entry.CSS.Status, "entry %d", i)

		assert.Empty(t, entry.Error)
	}
}

func TestScanIdempotent(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body>
		<input id="q" name="q">
		<button>Go</button>
		<a href="/help" title="Help pages">Help</a>
	</body></html>`)

	first, err := svc.Scan(context.Background())
	require.NoError(t, err)

	second, err := svc.Scan(context.Background())
	require.NoError(t, err)

	// Scan ids and timestamps differ; the resolved entries must not.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Entries, second.Entries)
}

func TestScanBrowserNotReady(t *testing.T) {
	svc, browser := newScanServiceOver(t, `<html><body><button>Go</button></body></html>`)
	browser.ready = false

	_, err := svc.Scan(context.Background())
	assert.Error(t, err)
}

func TestScanCancelledReturnsPartialResult(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body><button>Go</button></body></html>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Scan(ctx)
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Entries)
}

func TestScanFile(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body></body></html>`)

	page := `<html><body><button id="go">Go</button></body></html>`
	path := writeTempHTML(t, page)

	result, err := svc.ScanFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.URL)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "go", result.Entries[0].ID)
}

func writeTempHTML(t *testing.T, page string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	return path
}

func TestCheck(t *testing.T) {
	svc, _ := newScanServiceOver(t, `<html><body>
		<button>Save</button><button>Save</button>
	</body></html>`)

	count, err := svc.Check(context.Background(), entity.FamilyCSS, "button")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.Check(context.Background(), entity.FamilyXPath, "(//button)[1]")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.Check(context.Background(), entity.FamilyCSS, "???")
	assert.Error(t, err)
}
