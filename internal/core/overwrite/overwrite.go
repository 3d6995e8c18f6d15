// Package overwrite contains the per-kind overwrite policy.
// This is part of the Functional Core - no I/O, only pure functions.
//
// One Gate exists per artifact kind per run:
//
//	NotStarted → Scanned → (ConfirmedOverwrite | DeclinedOverwrite) → Done
//
// The gate is asked at most once for the whole kind, never per file, and
// a fresh gate is used for every kind so a decision never leaks across kinds.
package overwrite

import (
	"fmt"
	"path/filepath"
	"sort"
)

// State is a gate state.
type State string

const (
	StateNotStarted         State = "not_started"
	StateScanned            State = "scanned"
	StateConfirmedOverwrite State = "confirmed_overwrite"
	StateDeclinedOverwrite  State = "declined_overwrite"
	StateDone               State = "done"
)

// Outcome is the result of writing one entity's artifact.
type Outcome string

const (
	OutcomeCreated    Outcome = "created"
	OutcomeOverridden Outcome = "overridden"
	OutcomeSkipped    Outcome = "skipped"
)

// Mode decides how the confirmation gate is answered.
type Mode string

const (
	ModeAsk    Mode = "ask"    // prompt the operator
	ModeAlways Mode = "always" // accept without prompting
	ModeNever  Mode = "never"  // decline without prompting
)

// ParseMode validates a mode string. Empty means ModeAsk.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAsk:
		return ModeAsk, nil
	case ModeAlways:
		return ModeAlways, nil
	case ModeNever:
		return ModeNever, nil
	default:
		return "", fmt.Errorf("unknown overwrite mode %q (valid: ask, always, never)", s)
	}
}

// Gate tracks the overwrite state of one artifact kind.
type Gate struct {
	state    State
	existing map[string]bool
}

// NewGate returns a gate in StateNotStarted.
func NewGate() *Gate {
	return &Gate{state: StateNotStarted}
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// Scan records the files already present in the kind's output directory.
// basePath, the kind's hand-maintained base artifact, is never a candidate.
// With nothing to overwrite the gate settles on StateDeclinedOverwrite
// immediately, so no confirmation is needed.
func (g *Gate) Scan(existing []string, basePath string) error {
	if g.state != StateNotStarted {
		return fmt.Errorf("cannot scan: gate is %s", g.state)
	}
	g.existing = make(map[string]bool, len(existing))
	base := ""
	if basePath != "" {
		base = filepath.Clean(basePath)
	}
	for _, p := range existing {
		p = filepath.Clean(p)
		if p == base {
			continue
		}
		g.existing[p] = true
	}
	if len(g.existing) == 0 {
		g.state = StateDeclinedOverwrite
		return nil
	}
	g.state = StateScanned
	return nil
}

// NeedsConfirmation reports whether the gate is waiting for an answer.
func (g *Gate) NeedsConfirmation() bool {
	return g.state == StateScanned
}

// Existing returns the overwrite candidates captured by Scan, sorted.
func (g *Gate) Existing() []string {
	out := make([]string, 0, len(g.existing))
	for p := range g.existing {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Confirm applies the operator's answer for the whole kind.
func (g *Gate) Confirm(accept bool) error {
	if g.state != StateScanned {
		return fmt.Errorf("cannot confirm: gate is %s", g.state)
	}
	if accept {
		g.state = StateConfirmedOverwrite
	} else {
		g.state = StateDeclinedOverwrite
	}
	return nil
}

// Decide returns the outcome for writing path. Paths that did not exist at
// scan time are always created, whatever the answer was.
func (g *Gate) Decide(path string) (Outcome, error) {
	switch g.state {
	case StateConfirmedOverwrite, StateDeclinedOverwrite:
	default:
		return "", fmt.Errorf("cannot decide %s: gate is %s", path, g.state)
	}
	if !g.existing[filepath.Clean(path)] {
		return OutcomeCreated, nil
	}
	if g.state == StateConfirmedOverwrite {
		return OutcomeOverridden, nil
	}
	return OutcomeSkipped, nil
}

// Finish closes the gate.
func (g *Gate) Finish() error {
	switch g.state {
	case StateConfirmedOverwrite, StateDeclinedOverwrite:
		g.state = StateDone
		return nil
	default:
		return fmt.Errorf("cannot finish: gate is %s", g.state)
	}
}

// AnswerFor returns the automatic answer for a non-interactive mode.
// ok is false for ModeAsk, meaning the operator must be prompted.
func AnswerFor(mode Mode) (accept bool, ok bool) {
	switch mode {
	case ModeAlways:
		return true, true
	case ModeNever:
		return false, true
	default:
		return false, false
	}
}

// Writes reports whether an outcome writes to disk.
func (o Outcome) Writes() bool {
	return o == OutcomeCreated || o == OutcomeOverridden
}
