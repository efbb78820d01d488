package pricing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPricing(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  ModelPricing
	}{
		{
			name:  "grok fast pricing",
			model: "x-ai/grok-4-fast",
			want:  ModelPricing{Input: 0.001, Output: 0.003},
		},
		{
			name:  "claude sonnet pricing",
			model: "anthropic/claude-3.5-sonnet",
			want:  ModelPricing{Input: 0.003, Output: 0.015},
		},
		{
			name:  "gpt-4o-mini pricing",
			model: "openai/gpt-4o-mini",
			want:  ModelPricing{Input: 0.00015, Output: 0.0006},
		},
		{
			name:  "unknown model falls back to default",
			model: "foo/bar-9000",
			want:  ModelPricing{Input: 0.001, Output: 0.003},
		},
		{
			name:  "lookup is case-sensitive",
			model: "X-AI/GROK-4-FAST",
			want:  ModelPricing{Input: 0.001, Output: 0.003}, // miss, default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetPricing(tt.model)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPricingNonNegative(t *testing.T) {
	for model, pricing := range GetAllPricings() {
		assert.GreaterOrEqual(t, pricing.Input, 0.0, "input price for %s", model)
		assert.GreaterOrEqual(t, pricing.Output, 0.0, "output price for %s", model)
		// Output tokens never cost less than input tokens in this table.
		assert.GreaterOrEqual(t, pricing.Output, pricing.Input, "model %s", model)
	}
	assert.GreaterOrEqual(t, DefaultPricing().Input, 0.0)
	assert.GreaterOrEqual(t, DefaultPricing().Output, 0.0)
}

func TestGetAllPricingsReturnsCopy(t *testing.T) {
	all := GetAllPricings()
	all["x-ai/grok-4-fast"] = ModelPricing{Input: 999, Output: 999}
	assert.Equal(t, ModelPricing{Input: 0.001, Output: 0.003}, GetPricing("x-ai/grok-4-fast"))
}

func TestTableLookup(t *testing.T) {
	table := NewTable()

	// No overrides: behaves like the built-in map.
	assert.Equal(t, ModelPricing{Input: 0.001, Output: 0.003}, table.Lookup("x-ai/grok-4-fast"))
	assert.Equal(t, defaultPricing, table.Lookup("foo/bar-9000"))
}

func TestTableLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"x-ai/grok-4-fast": {"input": 0.01, "output": 0.02}, "custom/model": {"input": 0.5, "output": 1.0}}`,
	), 0644))

	table := NewTable()
	require.NoError(t, table.LoadOverrides(path))

	assert.Equal(t, 2, table.OverrideCount())
	assert.Equal(t, ModelPricing{Input: 0.01, Output: 0.02}, table.Lookup("x-ai/grok-4-fast"))
	assert.Equal(t, ModelPricing{Input: 0.5, Output: 1.0}, table.Lookup("custom/model"))
	// Non-overridden models keep built-in pricing and the default fallback.
	assert.Equal(t, ModelPricing{Input: 0.005, Output: 0.015}, table.Lookup("openai/gpt-4o"))
	assert.Equal(t, defaultPricing, table.Lookup("foo/bar-9000"))
}

func TestTableLoadOverridesRejectsNegativePrices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"bad/model": {"input": -1, "output": 0.02}}`,
	), 0644))

	table := NewTable()
	assert.Error(t, table.LoadOverrides(path))
	assert.Equal(t, 0, table.OverrideCount())
}

func TestTableLoadOverridesInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))

	table := NewTable()
	assert.Error(t, table.LoadOverrides(path))
}

func TestWatchOverridesReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"custom/model": {"input": 0.1, "output": 0.2}}`,
	), 0644))

	table := NewTable()
	watcher, err := WatchOverrides(table, path)
	require.NoError(t, err)
	defer watcher.Close()

	assert.Equal(t, ModelPricing{Input: 0.1, Output: 0.2}, table.Lookup("custom/model"))

	require.NoError(t, os.WriteFile(path, []byte(
		`{"custom/model": {"input": 0.3, "output": 0.4}}`,
	), 0644))

	assert.Eventually(t, func() bool {
		return table.Lookup("custom/model") == ModelPricing{Input: 0.3, Output: 0.4}
	}, 3*time.Second, 10*time.Millisecond)
}
