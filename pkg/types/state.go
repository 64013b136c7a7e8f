package types

// TargetState is the observed condition of a Target at invocation time
type TargetState string

const (
	// StateLinked means Target is a link that already resolves to Source
	StateLinked TargetState = "linked"

	// StateStaleLink means Target is a link that resolves somewhere else
	StateStaleLink TargetState = "stale-link"

	// StateMissing means nothing exists at Target
	StateMissing TargetState = "missing"

	// StateDirectory means Target is a real directory
	StateDirectory TargetState = "directory"

	// StateFile means Target is a regular file or another non-directory
	StateFile TargetState = "file"
)

// Action is what the reconciler does for a given TargetState
type Action string

const (
	ActionNone        Action = "none"
	ActionRelink      Action = "relink"
	ActionCreateLink  Action = "create-link"
	ActionMergeLink   Action = "merge-and-link"
	ActionLeaveIntact Action = "leave-intact"
)

// ActionFor returns the action the state table prescribes for a state
func ActionFor(state TargetState) Action {
	switch state {
	case StateLinked:
		return ActionNone
	case StateStaleLink:
		return ActionRelink
	case StateMissing:
		return ActionCreateLink
	case StateDirectory:
		return ActionMergeLink
	default:
		return ActionLeaveIntact
	}
}

// Outcome is the terminal result of reconciling one unit
type Outcome string

const (
	OutcomeLinked  Outcome = "linked"
	OutcomeWarning Outcome = "warning"
	OutcomePlanned Outcome = "planned"
)

// WarningReason identifies why a unit could not be linked
type WarningReason string

const (
	ReasonNone             WarningReason = ""
	ReasonNotEmptied       WarningReason = "not-emptied"
	ReasonIncompatibleFile WarningReason = "incompatible-file"
)
