package cli

import (
	"fmt"

	"github.com/algebra-practice/backend/internal/formula"
	"github.com/algebra-practice/backend/internal/metrics"
)

// Sanitize cleans a formula and returns it with the repair warnings.
func (c *Context) Sanitize(latex, display string) (string, []string, error) {
	mode, ok := formula.ParseMode(display)
	if !ok {
		return "", nil, fmt.Errorf("display must be inline or block, got %q", display)
	}

	sanitized, repair := formula.SanitizeReport(latex, mode)
	metrics.RecordFormulaRepair(repair.Appended, repair.Prepended)

	return sanitized, repair.Warnings(), nil
}
