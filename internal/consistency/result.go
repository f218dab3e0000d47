package consistency

import "time"

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

const (
	CategoryCharacter = "character"
	CategoryLocation  = "location"
	CategoryItem      = "item"
	CategoryReference = "reference"
	CategoryRuleError = "rule-error"
)

// Result is a single consistency finding. Results are never edited after
// creation; superseding findings are appended alongside the old ones.
type Result struct {
	Type             Level
	Category         string
	Description      string
	Details          string
	AffectedElements []string
	Severity         int // 1 minor - 5 critical
	AutoFixable      bool
	SuggestedFix     string
	DetectedAt       time.Time
}
