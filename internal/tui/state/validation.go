package state

import (
	"fmt"

	"github.com/maimon495/gratitude/internal/validation"
)

// UpdateValidationStatus runs validation and updates the warning message
func (m *Model) UpdateValidationStatus() {
	result := validation.New().ValidateEntries(m.Journal.Entries(), m.Journal.Now())
	m.ValidationConflicts = result.Conflicts

	if len(result.Conflicts) > 0 {
		m.ValidationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.ValidationWarning = ""
	}
}
