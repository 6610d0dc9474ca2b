// Package i18n loads per-locale translation tables and guarantees
// structural completeness by filling gaps from the base locale.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
)

// BaseLang is the reference locale. Its table defines the full key set
// every resolved table must contain.
const BaseLang = "en"

// Table is a nested mapping from translation key to string (or to a
// nested Table when decoded from JSON objects).
type Table map[string]interface{}

// Resolver resolves locale codes to complete translation tables. The base
// table is loaded once at construction; Resolve never fails afterwards.
type Resolver struct {
	dir  string
	base Table
}

// NewResolver loads the base locale from dir. A missing or malformed base
// file is a fatal misconfiguration: nothing can be rendered without it.
func NewResolver(dir string) (*Resolver, error) {
	base, err := loadTable(filepath.Join(dir, BaseLang+".json"))
	if err != nil {
		return nil, fmt.Errorf("loading base translation: %w", err)
	}
	return &Resolver{dir: dir, base: base}, nil
}

// Resolve returns a complete translation table for langCode. A missing or
// unparsable locale file falls back to the base table wholesale; a partial
// locale file is deep-merged so every base key is present in the result.
// The returned table never aliases the resolver's internal state.
func (r *Resolver) Resolve(langCode string) Table {
	if langCode == "" || langCode == BaseLang {
		return deepCopyTable(r.base)
	}

	target, err := loadTable(filepath.Join(r.dir, langCode+".json"))
	if err != nil {
		logger.Warn("translation file unusable, falling back to base locale",
			"lang", langCode, "error", err.Error())
		return deepCopyTable(r.base)
	}

	return merge(r.base, target)
}

// merge copies every base key absent from target into a fresh table,
// recursing into nested tables. Keys authored in target win.
func merge(base, target Table) Table {
	result := deepCopyTable(target)

	for key, baseValue := range base {
		existing, ok := result[key]
		if !ok {
			result[key] = deepCopy(baseValue)
			continue
		}
		baseNested, baseIsTable := toTable(baseValue)
		targetNested, targetIsTable := toTable(existing)
		if baseIsTable && targetIsTable {
			result[key] = merge(baseNested, targetNested)
		}
	}

	return result
}

// Verify reports every base key path missing from table, recursively.
// It is read-only and intended for diagnostics.
func (r *Resolver) Verify(table Table) []string {
	return verifyAgainst(r.base, table, "")
}

func verifyAgainst(base, table Table, prefix string) []string {
	var missing []string
	for key, baseValue := range base {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		value, ok := table[key]
		if !ok {
			missing = append(missing, path)
			continue
		}
		if baseNested, isTable := toTable(baseValue); isTable {
			nested, ok := toTable(value)
			if !ok {
				missing = append(missing, path)
				continue
			}
			missing = append(missing, verifyAgainst(baseNested, nested, path)...)
		}
	}
	return missing
}

func loadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

func toTable(v interface{}) (Table, bool) {
	switch m := v.(type) {
	case Table:
		return m, true
	case map[string]interface{}:
		return Table(m), true
	default:
		return nil, false
	}
}

func deepCopyTable(t Table) Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v interface{}) interface{} {
	if nested, ok := toTable(v); ok {
		return deepCopyTable(nested)
	}
	return v
}
