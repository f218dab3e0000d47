package consistency

// Rule is a named strategy evaluated against successive world states.
// Evaluate returns a finding when a violation is present, nil otherwise;
// previous is nil for the first snapshot. Rules are registered once at
// startup; enabled state and priority may be overridden by configuration.
type Rule interface {
	ID() string
	Name() string
	Category() string
	Priority() int
	Evaluate(current, previous *WorldState) (*Result, error)
}

// Fixer is implemented by rules that can repair the violation they detect.
// Fix returns a corrected replacement state plus the audit records for
// exactly what changed; it must not mutate the inputs.
type Fixer interface {
	Fix(current, previous *WorldState) (*WorldState, []StateChange, error)
}

// RuleConfig toggles a registered rule without touching its code.
type RuleConfig struct {
	ID       string `yaml:"id"`
	Enabled  *bool  `yaml:"enabled"`
	Priority *int   `yaml:"priority"`
}
