package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocale(t *testing.T, dir, lang, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, lang+".json"), []byte(content), 0o644))
}

func newTestResolver(t *testing.T) (*Resolver, string) {
	t.Helper()
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{
		"daily": "daily",
		"weekly": "weekly",
		"report_header": "your {frequency} report",
		"tables": {"pages": "Pages", "views": "Views"}
	}`)

	r, err := NewResolver(dir)
	require.NoError(t, err)
	return r, dir
}

func TestNewResolverMissingBaseIsFatal(t *testing.T) {
	_, err := NewResolver(t.TempDir())
	assert.Error(t, err)
}

func TestNewResolverMalformedBaseIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{not json`)
	_, err := NewResolver(dir)
	assert.Error(t, err)
}

func TestResolveBaseIsIdentity(t *testing.T) {
	r, _ := newTestResolver(t)

	table := r.Resolve("en")
	assert.Equal(t, "daily", table["daily"])
	assert.Empty(t, r.Verify(table))
}

func TestResolveUnknownLocaleFallsBackToBase(t *testing.T) {
	r, _ := newTestResolver(t)

	table := r.Resolve("xx")
	assert.Equal(t, r.Resolve("en"), table)
}

func TestResolveMalformedLocaleFallsBackWholesale(t *testing.T) {
	r, dir := newTestResolver(t)
	writeLocale(t, dir, "nl", `{"daily": "dagelijks", BROKEN`)

	table := r.Resolve("nl")
	assert.Equal(t, "daily", table["daily"])
}

func TestResolveFillsMissingKeysDeep(t *testing.T) {
	r, dir := newTestResolver(t)
	writeLocale(t, dir, "nl", `{
		"daily": "dagelijks",
		"tables": {"pages": "Pagina's"}
	}`)

	table := r.Resolve("nl")

	// Authored keys kept.
	assert.Equal(t, "dagelijks", table["daily"])
	nested, ok := toTable(table["tables"])
	require.True(t, ok)
	assert.Equal(t, "Pagina's", nested["pages"])

	// Missing keys filled from base, including nested ones.
	assert.Equal(t, "weekly", table["weekly"])
	assert.Equal(t, "Views", nested["views"])

	assert.Empty(t, r.Verify(table))
}

func TestResolveResultDoesNotAliasBase(t *testing.T) {
	r, dir := newTestResolver(t)
	writeLocale(t, dir, "nl", `{"daily": "dagelijks"}`)

	table := r.Resolve("nl")
	nested, ok := toTable(table["tables"])
	require.True(t, ok)
	nested["pages"] = "MUTATED"

	fresh := r.Resolve("en")
	freshNested, _ := toTable(fresh["tables"])
	assert.Equal(t, "Pages", freshNested["pages"])
}

func TestVerifyReportsMissingPaths(t *testing.T) {
	r, _ := newTestResolver(t)

	missing := r.Verify(Table{"daily": "x", "tables": map[string]interface{}{"pages": "y"}})
	assert.Contains(t, missing, "weekly")
	assert.Contains(t, missing, "report_header")
	assert.Contains(t, missing, "tables.views")
}

func TestFrequencyLabel(t *testing.T) {
	table := Table{"daily": "daily", "weekly": "weekly"}

	assert.Equal(t, "daily", FrequencyLabel("day", table))
	assert.Equal(t, "weekly", FrequencyLabel("week", table))
	assert.Equal(t, "", FrequencyLabel("fortnight", table))
	assert.Equal(t, "", FrequencyLabel("month", table)) // key absent
}
