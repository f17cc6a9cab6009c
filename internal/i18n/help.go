package i18n

import (
	_ "embed"
	"strings"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/model"
)

//go:embed help.md
var helpMD string

// Help returns the usage text shown by the TUI and served by the web API.
func Help() string {
	return strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)
}
