package outwriter

import (
	"os"

	"github.com/huangsam/sunspot/internal/contract"
	"golang.org/x/term"
)

// wideTableWidth is the terminal width from which optional columns are shown.
const wideTableWidth = 100

// GetTableWidth returns the width available to tables: the --width override,
// else the detected terminal width, else a conservative default.
func GetTableWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// isWide reports whether optional table columns fit.
func isWide(cfg *contract.Config) bool {
	return GetTableWidth(cfg) >= wideTableWidth
}
