package draft

import "github.com/jmanzanog/ko-wizard/internal/domain"

// Step is a position in the guided wizard.
type Step int

const (
	StepAssetClass Step = iota
	StepSubgroup
	StepEmittent
	StepDirection
	StepISIN
	StepBasispreis
	StepBezugsverhaeltnis
	StepAufgeld
	StepFavorite
	StepDone
)

var stepNames = [...]string{
	StepAssetClass:        "assetClass",
	StepSubgroup:          "subgroup",
	StepEmittent:          "emittent",
	StepDirection:         "direction",
	StepISIN:              "isin",
	StepBasispreis:        "basispreis",
	StepBezugsverhaeltnis: "bezugsverhaeltnis",
	StepAufgeld:           "aufgeld",
	StepFavorite:          "favorite",
	StepDone:              "done",
}

func (s Step) String() string {
	if s < StepAssetClass || s > StepDone {
		return "unknown"
	}
	return stepNames[s]
}

func ParseStep(name string) (Step, bool) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), true
		}
	}
	return StepAssetClass, false
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Mode selects the transition regime.
type Mode int

const (
	// ModeCreating walks the full wizard with asset class and issuer skip rules.
	ModeCreating Mode = iota
	// ModeEditingExisting visits only editStepOrder.
	ModeEditingExisting
)

func (m Mode) String() string {
	if m == ModeEditingExisting {
		return "editingExisting"
	}
	return "creating"
}

// editStepOrder is the fixed sequence used when editing a stored instrument.
var editStepOrder = []Step{StepISIN, StepBasispreis, StepBezugsverhaeltnis, StepAufgeld, StepFavorite}

// IsEditableStep reports whether step is reachable while editing a stored instrument.
func IsEditableStep(step Step) bool {
	for _, s := range editStepOrder {
		if s == step {
			return true
		}
	}
	return false
}

// editEntryStep is where an edit session starts and where disallowed steps
// are redirected to.
func editEntryStep(emittent domain.Emittent) Step {
	if emittent.IsIG() {
		return StepBasispreis
	}
	return StepISIN
}

// NextStep decides the step after current. It is the only place that knows
// the skip rules.
func NextStep(current Step, assetClass domain.AssetClass, emittent domain.Emittent, mode Mode) Step {
	if mode == ModeEditingExisting {
		for i, s := range editStepOrder {
			if s != current {
				continue
			}
			if i+1 < len(editStepOrder) {
				return editStepOrder[i+1]
			}
			return StepDone
		}
		if current == StepDone {
			return StepDone
		}
		return editEntryStep(emittent)
	}

	barrier := assetClass == domain.AssetClassIGBarrier
	switch current {
	case StepAssetClass:
		return StepSubgroup
	case StepSubgroup:
		if barrier {
			return StepDirection
		}
		return StepEmittent
	case StepEmittent:
		return StepDirection
	case StepDirection:
		if barrier || emittent.IsIG() {
			return StepBasispreis
		}
		return StepISIN
	case StepISIN:
		return StepBasispreis
	case StepBasispreis:
		switch {
		case barrier:
			return StepFavorite
		case emittent.IsIG():
			return StepAufgeld
		default:
			return StepBezugsverhaeltnis
		}
	case StepBezugsverhaeltnis:
		return StepAufgeld
	case StepAufgeld:
		return StepFavorite
	default:
		return StepDone
	}
}
