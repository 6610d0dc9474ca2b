package render

import (
	"os"

	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
)

// fallbackCSS keeps reports readable when no stylesheet ships alongside
// the templates.
const fallbackCSS = `
body { font-family: Arial, sans-serif; background-color: #f5f5f5; margin: 0; padding: 0; }
.container { max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 8px;
    padding: 20px; box-shadow: 0 4px 8px rgba(0, 0, 0, 0.1); }
.logo { text-align: center; margin-bottom: 20px; }
.header { font-size: 18px; font-weight: bold; text-align: center; margin-bottom: 20px; }
.table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
.table th, .table td { border: 1px solid #ddd; padding: 8px; text-align: left; }
.table th { background-color: #f2f2f2; font-weight: bold; }
.footer { text-align: center; font-size: 12px; color: #555; margin-top: 20px; }
`

// Styling reads the stylesheet inlined into every report, falling back to
// a built-in default when the file is missing.
func Styling(cssPath string) string {
	data, err := os.ReadFile(cssPath)
	if err != nil {
		logger.Warn("stylesheet not found, using default styling", "path", cssPath)
		return fallbackCSS
	}
	return string(data)
}
