package types

import "fmt"

// Status lines reported for each applied row of the link state table
const (
	MsgAlreadyLinked    = "already linked"
	MsgReplacedStale    = "replaced stale link (was -> %s)"
	MsgCreatedLink      = "created new link"
	MsgMergedAndLinked  = "merged existing directory and linked"
	MsgWarnNotEmptied   = "warning: target could not be fully emptied; not linked"
	MsgWarnIncompatible = "warning: target is an incompatible existing file; not linked"

	MsgPlanRelink = "would replace stale link (was -> %s)"
	MsgPlanCreate = "would create new link"
	MsgPlanMerge  = "would merge existing directory and link"
)

// MergeStats summarises what the merge step did with Target's entries
type MergeStats struct {
	Moved      int      `json:"moved" yaml:"moved"`
	Merged     int      `json:"merged" yaml:"merged"`
	Duplicates int      `json:"duplicates" yaml:"duplicates"`
	Conflicts  []string `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Leftovers  []string `json:"leftovers,omitempty" yaml:"leftovers,omitempty"`
}

// Add folds the counters of another merge into s
func (s *MergeStats) Add(other MergeStats) {
	s.Moved += other.Moved
	s.Merged += other.Merged
	s.Duplicates += other.Duplicates
	s.Conflicts = append(s.Conflicts, other.Conflicts...)
	s.Leftovers = append(s.Leftovers, other.Leftovers...)
}

// Result reports how one unit was reconciled
type Result struct {
	Unit     Unit          `json:"unit" yaml:"unit"`
	State    TargetState   `json:"state" yaml:"state"`
	Action   Action        `json:"action" yaml:"action"`
	Outcome  Outcome       `json:"outcome" yaml:"outcome"`
	Reason   WarningReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message  string        `json:"message" yaml:"message"`
	PrevLink string        `json:"previous_link,omitempty" yaml:"previous_link,omitempty"`
	Merge    MergeStats    `json:"merge" yaml:"merge"`
}

// Linked reports whether the unit ended up linked to its source
func (r Result) Linked() bool {
	return r.Outcome == OutcomeLinked
}

// String renders the one-line status for the unit
func (r Result) String() string {
	return fmt.Sprintf("%s: %s -> %s: %s", r.Unit.Label(), r.Unit.Target, r.Unit.Source, r.Message)
}

// Summary aggregates a run over all configured units
type Summary struct {
	Results  []Result `json:"results" yaml:"results"`
	Linked   int      `json:"linked" yaml:"linked"`
	Warnings int      `json:"warnings" yaml:"warnings"`
	DryRun   bool     `json:"dry_run" yaml:"dry_run"`
}

// Record appends a result and updates the counters
func (s *Summary) Record(r Result) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeLinked:
		s.Linked++
	case OutcomeWarning:
		s.Warnings++
	}
}
