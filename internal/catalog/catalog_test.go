package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCatalog writes a single catalog.cue into a fresh temp dir.
func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(content), 0644))
	return dir
}

const validCatalog = `
catalog: events: [
	{
		name:          "Midnight Orchestra"
		venue:         "Great Hall"
		event_type:    "concert"
		description:   "one night only"
		event_height:  10_000
		total_tickets: 500
		base_price:    2500
	},
	{
		name:          "Morning Keynote"
		event_height:  20_000
		total_tickets: 1200
		base_price:    900
	},
]
`

func TestLoadValidCatalog(t *testing.T) {
	dir := writeCatalog(t, validCatalog)

	defs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, Definition{
		Name:         "Midnight Orchestra",
		Description:  "one night only",
		Venue:        "Great Hall",
		EventType:    "concert",
		EventHeight:  10_000,
		TotalTickets: 500,
		BasePrice:    2500,
	}, defs[0])

	// Optional text fields default to empty.
	assert.Equal(t, "Morning Keynote", defs[1].Name)
	assert.Empty(t, defs[1].Venue)
	assert.Equal(t, uint64(1200), defs[1].TotalTickets)
}

func TestLoadPreservesDeclarationOrder(t *testing.T) {
	dir := writeCatalog(t, `
catalog: events: [
	{name: "first", event_height: 100, total_tickets: 1, base_price: 1},
	{name: "second", event_height: 100, total_tickets: 1, base_price: 1},
	{name: "third", event_height: 100, total_tickets: 1, base_price: 1},
]
`)

	defs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "first", defs[0].Name)
	assert.Equal(t, "second", defs[1].Name)
	assert.Equal(t, "third", defs[2].Name)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found")
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestLoadWithoutEventsList(t *testing.T) {
	dir := writeCatalog(t, `catalog: venue_count: 3`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.events")
}

func TestLoadEmptyEventsList(t *testing.T) {
	dir := writeCatalog(t, `catalog: events: []`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no events")
}

func TestLoadEntryErrors(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		wantErr string
	}{
		{
			"missing name",
			`{event_height: 100, total_tickets: 10, base_price: 5}`,
			"events[0].name: required",
		},
		{
			"empty name",
			`{name: "", event_height: 100, total_tickets: 10, base_price: 5}`,
			"events[0].name",
		},
		{
			"missing height",
			`{name: "x", total_tickets: 10, base_price: 5}`,
			"events[0].event_height: required",
		},
		{
			"zero tickets",
			`{name: "x", event_height: 100, total_tickets: 0, base_price: 5}`,
			"events[0].total_tickets: must be positive",
		},
		{
			"zero price",
			`{name: "x", event_height: 100, total_tickets: 10, base_price: 0}`,
			"events[0].base_price: must be positive",
		},
		{
			"negative tickets",
			`{name: "x", event_height: 100, total_tickets: -5, base_price: 5}`,
			"events[0].total_tickets",
		},
		{
			"wrong name type",
			`{name: 42, event_height: 100, total_tickets: 10, base_price: 5}`,
			"events[0].name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeCatalog(t, "catalog: events: ["+tt.entry+"]")
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSecondEntryErrorNamesItsIndex(t *testing.T) {
	dir := writeCatalog(t, `
catalog: events: [
	{name: "fine", event_height: 100, total_tickets: 10, base_price: 5},
	{name: "broken", event_height: 100, total_tickets: 0, base_price: 5},
]
`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events[1].total_tickets")
}

func TestLoadMalformedCUE(t *testing.T) {
	dir := writeCatalog(t, `catalog: events: [{name: "unclosed`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadErrorCarriesPosition(t *testing.T) {
	dir := writeCatalog(t, `catalog: events: [{name: "x", event_height: 100, total_tickets: 0, base_price: 5}]`)

	_, err := Load(dir)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.True(t, loadErr.Pos.IsValid(), "entry errors should carry a file position")
	assert.Contains(t, loadErr.Pos.Filename(), "catalog.cue")
}
