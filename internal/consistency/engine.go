package consistency

import (
	"fmt"
	"sort"
	"time"
)

// maxFixPasses caps corrective passes per snapshot so auto-fixes that
// re-trigger rules cannot oscillate forever.
const maxFixPasses = 3

// Engine owns the append-only snapshot sequence and the registered rule set.
type Engine struct {
	rules    []Rule
	enabled  map[string]bool
	priority map[string]int
	history  []*WorldState

	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		enabled:  make(map[string]bool),
		priority: make(map[string]int),
		now:      time.Now,
	}
}

// Register adds a rule. Registration order breaks priority ties, so it is
// part of the evaluation contract.
func (e *Engine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
	if _, ok := e.enabled[rule.ID()]; !ok {
		e.enabled[rule.ID()] = true
	}
}

// Configure applies enable/priority overrides from configuration. Unknown
// rule ids are ignored.
func (e *Engine) Configure(configs []RuleConfig) {
	for _, cfg := range configs {
		if cfg.Enabled != nil {
			e.enabled[cfg.ID] = *cfg.Enabled
		}
		if cfg.Priority != nil {
			e.priority[cfg.ID] = *cfg.Priority
		}
	}
}

func (e *Engine) History() []*WorldState {
	out := make([]*WorldState, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) Latest() *WorldState {
	if len(e.history) == 0 {
		return nil
	}
	return e.history[len(e.history)-1]
}

// Append records a snapshot at the next chapter boundary: the diff against
// the predecessor becomes the snapshot's change log, every enabled rule is
// evaluated against the transition, and the (possibly auto-corrected)
// snapshot joins the history. Returns the stored snapshot.
func (e *Engine) Append(w WorldState) (*WorldState, error) {
	prev := e.Latest()
	if prev != nil && w.ChapterNumber <= prev.ChapterNumber {
		return nil, fmt.Errorf("snapshot for chapter %d does not follow chapter %d", w.ChapterNumber, prev.ChapterNumber)
	}

	current := w.Clone()
	if current.Timestamp.IsZero() {
		current.Timestamp = e.now()
	}
	current.ChangeLog = append(current.ChangeLog, diffStates(prev, current)...)

	current = e.evaluate(current, prev)

	e.history = append(e.history, current)
	return current, nil
}

// evaluate runs the enabled rules in priority order against the transition.
// A firing rule with a fix replaces the current state; remaining rules see
// the corrected state. Findings, pre- and post-fix, are all appended to the
// snapshot's Checks.
func (e *Engine) evaluate(current, prev *WorldState) *WorldState {
	rules := e.sortedRules()
	var results []Result
	fixPasses := 0
	fixSkipped := false

	for _, rule := range rules {
		result := e.safeEvaluate(rule, current, prev)
		if result == nil {
			continue
		}
		if result.DetectedAt.IsZero() {
			result.DetectedAt = e.now()
		}
		results = append(results, *result)

		fixer, ok := rule.(Fixer)
		if !ok || !result.AutoFixable {
			continue
		}
		if fixPasses >= maxFixPasses {
			fixSkipped = true
			continue
		}

		fixed, changes, err := fixer.Fix(current, prev)
		if err != nil {
			results = append(results, Result{
				Type:        LevelInfo,
				Category:    CategoryRuleError,
				Description: fmt.Sprintf("auto-fix for rule %s failed", rule.ID()),
				Details:     err.Error(),
				Severity:    1,
				DetectedAt:  e.now(),
			})
			continue
		}
		if len(changes) == 0 {
			continue
		}
		for i := range changes {
			changes[i].Automatic = true
			changes[i].At = e.now()
		}
		fixed.ChangeLog = append(fixed.ChangeLog, changes...)
		current = fixed
		fixPasses++
	}

	if fixSkipped {
		results = append(results, Result{
			Type:        LevelInfo,
			Category:    CategoryRuleError,
			Description: fmt.Sprintf("auto-fix limit of %d passes reached; remaining fixes skipped", maxFixPasses),
			Severity:    1,
			DetectedAt:  e.now(),
		})
	}

	current.Checks = append(current.Checks, results...)
	return current
}

// safeEvaluate shields the engine from misbehaving rules: an error or panic
// becomes an informational rule-error finding and the rule is skipped.
func (e *Engine) safeEvaluate(rule Rule, current, prev *WorldState) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &Result{
				Type:        LevelInfo,
				Category:    CategoryRuleError,
				Description: fmt.Sprintf("rule %s panicked", rule.ID()),
				Details:     fmt.Sprintf("%v", r),
				Severity:    1,
				DetectedAt:  e.now(),
			}
		}
	}()

	res, err := rule.Evaluate(current, prev)
	if err != nil {
		return &Result{
			Type:        LevelInfo,
			Category:    CategoryRuleError,
			Description: fmt.Sprintf("rule %s failed", rule.ID()),
			Details:     err.Error(),
			Severity:    1,
			DetectedAt:  e.now(),
		}
	}
	return res
}

// sortedRules returns the enabled rules by priority descending, stable on
// registration order.
func (e *Engine) sortedRules() []Rule {
	var out []Rule
	for _, rule := range e.rules {
		if e.enabled[rule.ID()] {
			out = append(out, rule)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return e.effectivePriority(out[i]) > e.effectivePriority(out[j])
	})
	return out
}

func (e *Engine) effectivePriority(rule Rule) int {
	if p, ok := e.priority[rule.ID()]; ok {
		return p
	}
	return rule.Priority()
}
