package pricing

import (
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"
)

// Table is a price lookup that layers file-based overrides over the
// built-in pricing map. The zero override set behaves exactly like the
// built-in table, including the default fallback for unknown models.
type Table struct {
	mu        sync.RWMutex
	overrides map[string]ModelPricing
}

// NewTable creates a Table with no overrides loaded.
func NewTable() *Table {
	return &Table{}
}

// Lookup returns the pricing for a model, preferring overrides, then the
// built-in map, then the default entry.
func (t *Table) Lookup(modelName string) ModelPricing {
	t.mu.RLock()
	pricing, ok := t.overrides[modelName]
	t.mu.RUnlock()
	if ok {
		return pricing
	}
	return GetPricing(modelName)
}

// LoadOverrides reads a JSON file mapping model name to pricing entry and
// replaces the current override set. Entries with negative prices are
// rejected so the table never returns a negative cost.
func (t *Table) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries map[string]ModelPricing
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing pricing overrides %s: %w", path, err)
	}

	for name, entry := range entries {
		if entry.Input < 0 || entry.Output < 0 {
			return fmt.Errorf("pricing override for %s has negative price", name)
		}
	}

	t.mu.Lock()
	t.overrides = entries
	t.mu.Unlock()
	return nil
}

// OverrideCount returns the number of loaded override entries.
func (t *Table) OverrideCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.overrides)
}
