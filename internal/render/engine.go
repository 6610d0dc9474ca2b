// Package render turns a report context into an HTML document using Liquid
// templates loaded from disk.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
)

// Engine renders report templates with caching. Parsed templates are cached
// by name for the life of the process; template files are not expected to
// change during a run.
type Engine struct {
	engine *liquid.Engine
	dir    string
	cache  sync.Map // map[string]*liquid.Template
}

// NewEngine creates an engine reading templates from dir.
func NewEngine(dir string) *Engine {
	e := &Engine{
		engine: liquid.NewEngine(),
		dir:    dir,
	}
	e.registerFilters()
	return e
}

func (e *Engine) registerFilters() {
	// {{ value | default: "fallback" }}
	e.engine.RegisterFilter("default", func(value interface{}, fallback string) interface{} {
		if value == nil {
			return fallback
		}
		s := fmt.Sprintf("%v", value)
		if s == "" || s == "<nil>" {
			return fallback
		}
		return value
	})

	// {{ label | capitalize }}
	e.engine.RegisterFilter("capitalize", func(s string) string {
		if len(s) == 0 {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	})

	// {{ label | truncate: 40 }}
	e.engine.RegisterFilter("truncate", func(s string, length int) string {
		if len(s) <= length {
			return s
		}
		if length <= 3 {
			return s[:length]
		}
		return s[:length-3] + "..."
	})
}

// Render renders the named template file with the given bindings.
func (e *Engine) Render(templateName string, bindings map[string]interface{}) (string, error) {
	tmpl, err := e.template(templateName)
	if err != nil {
		return "", err
	}

	out, err := tmpl.Render(bindings)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", templateName, err)
	}
	return string(out), nil
}

func (e *Engine) template(name string) (*liquid.Template, error) {
	if cached, ok := e.cache.Load(name); ok {
		return cached.(*liquid.Template), nil
	}

	data, err := os.ReadFile(filepath.Join(e.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	tmpl, err := e.engine.ParseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	e.cache.Store(name, tmpl)
	return tmpl, nil
}

// WriteHTML persists a rendered document under dir for sites that keep
// browsable copies, returning the written path. The directory is created
// on demand.
func WriteHTML(dir, websiteName, doc string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	name := strings.ToLower(strings.ReplaceAll(websiteName, " ", "_")) + "_report.html"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing report file: %w", err)
	}

	logger.Info("report written", "path", path)
	return path, nil
}
