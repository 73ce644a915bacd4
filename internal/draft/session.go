// Package draft holds the in-progress instrument of the creation wizard and
// the step state machine that walks it.
package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/importer"
)

var (
	ErrSubgroupNotAllowed = errors.New("subgroup not offered for asset class")
	ErrInvalidRatio       = errors.New("invalid custom ratio")
	ErrCustomRatioValue   = errors.New("custom ratio requires a denominator")
	ErrNotDone            = errors.New("wizard is not at the done step")
	ErrDraftInvalid       = errors.New("draft is not valid")
	ErrNotEditing         = errors.New("no edit session active")
	ErrEditInProgress     = errors.New("edit session active")
	ErrTargetMismatch     = errors.New("instrument is not the edit target")
)

// Session is one wizard run. It is not safe for concurrent use; callers
// serialize access.
type Session struct {
	draft      domain.Instrument
	step       Step
	returnStep *Step
	targetID   string
}

func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset starts over with an empty draft at the first step.
func (s *Session) Reset() {
	s.draft = domain.NewInstrument()
	s.step = StepAssetClass
	s.returnStep = nil
	s.targetID = ""
}

// Draft returns a copy of the draft instrument.
func (s *Session) Draft() domain.Instrument {
	return s.draft
}

func (s *Session) Step() Step {
	return s.step
}

// ReturnStep is the step to resume after a single-field edit.
func (s *Session) ReturnStep() (Step, bool) {
	if s.returnStep == nil {
		return StepAssetClass, false
	}
	return *s.returnStep, true
}

// EditingTargetID is the id of the stored instrument under edit.
func (s *Session) EditingTargetID() (string, bool) {
	return s.targetID, s.targetID != ""
}

func (s *Session) IsEditingExisting() bool {
	return s.targetID != ""
}

func (s *Session) Mode() Mode {
	if s.IsEditingExisting() {
		return ModeEditingExisting
	}
	return ModeCreating
}

func (s *Session) NeedsISIN() bool {
	return !s.draft.Emittent.IsIG()
}

func (s *Session) NeedsRatio() bool {
	return !s.draft.Emittent.IsIG()
}

// Subgroups are the picker entries for the current asset class.
func (s *Session) Subgroups() []domain.Subgroup {
	return s.draft.AssetClass.Subgroups()
}

// Mutate applies fn to the draft and recomputes its name.
func (s *Session) Mutate(fn func(*domain.Instrument)) {
	fn(&s.draft)
	s.draft.Name = s.draft.ListTitle()
}

// SetStep jumps to step. While editing a stored instrument a step outside
// the edit set is replaced by the edit entry step.
func (s *Session) SetStep(step Step) {
	s.step = step
	s.ensureAllowedEditStep()
}

func (s *Session) ensureAllowedEditStep() {
	if !s.IsEditingExisting() || s.step == StepDone || IsEditableStep(s.step) {
		return
	}
	s.step = editEntryStep(s.draft.Emittent)
}

// advance leaves the step whose field was just answered. A pending return
// step wins over the linear order unless a stored instrument is being edited.
func (s *Session) advance(from Step) {
	switch {
	case s.IsEditingExisting():
		s.step = NextStep(from, s.draft.AssetClass, s.draft.Emittent, ModeEditingExisting)
	case s.returnStep != nil:
		s.step = *s.returnStep
		s.returnStep = nil
	default:
		s.step = NextStep(from, s.draft.AssetClass, s.draft.Emittent, ModeCreating)
	}
}

// Advance is the explicit "continue" action on the current step.
func (s *Session) Advance() {
	s.advance(s.step)
}

// SelectAssetClass resets everything that depends on the asset class.
// IG barriers get the IG issuer and a zero premium.
func (s *Session) SelectAssetClass(ac domain.AssetClass) {
	s.Mutate(func(d *domain.Instrument) {
		d.AssetClass = ac
		d.Subgroup = domain.SubgroupNone
		d.UnderlyingName = ""
		d.ISIN = ""
		d.Bezugsverhaeltnis = ""
		if ac == domain.AssetClassIGBarrier {
			d.Emittent = domain.EmittentIGMarkets
			d.Aufgeld = "0"
		} else {
			d.Emittent = domain.EmittentNone
			d.Aufgeld = ""
		}
	})
	s.advance(StepAssetClass)
}

func (s *Session) SelectSubgroup(sg domain.Subgroup) error {
	if !s.draft.AssetClass.Offers(sg) {
		return fmt.Errorf("%w: %s for %s", ErrSubgroupNotAllowed, sg, s.draft.AssetClass)
	}
	s.Mutate(func(d *domain.Instrument) {
		d.Subgroup = sg
		d.UnderlyingName = sg.DisplayName()
	})
	s.advance(StepSubgroup)
	return nil
}

// SetUnderlyingName answers the subgroup step with free text. Only asset
// classes without a subgroup list accept it.
func (s *Session) SetUnderlyingName(name string) error {
	if len(s.draft.AssetClass.Subgroups()) > 0 {
		return fmt.Errorf("%w: free text for %s", ErrSubgroupNotAllowed, s.draft.AssetClass)
	}
	s.Mutate(func(d *domain.Instrument) {
		d.Subgroup = domain.SubgroupNone
		d.UnderlyingName = strings.TrimSpace(name)
	})
	s.advance(StepSubgroup)
	return nil
}

// SelectEmittent sets the issuer. IG carries neither ISIN nor ratio.
func (s *Session) SelectEmittent(e domain.Emittent) {
	s.Mutate(func(d *domain.Instrument) {
		d.Emittent = e
		if e.IsIG() {
			d.ISIN = ""
			d.Bezugsverhaeltnis = ""
		}
	})
	s.advance(StepEmittent)
}

func (s *Session) SelectDirection(dir domain.Direction) {
	s.Mutate(func(d *domain.Instrument) {
		d.Direction = dir
	})
	s.advance(StepDirection)
}

func (s *Session) SetISIN(isin string) {
	s.Mutate(func(d *domain.Instrument) {
		d.ISIN = strings.ToUpper(strings.TrimSpace(isin))
	})
	s.advance(StepISIN)
}

func (s *Session) SetBasispreis(raw string) {
	s.Mutate(func(d *domain.Instrument) {
		d.Basispreis = domain.SanitizeNumeric(raw)
	})
	s.advance(StepBasispreis)
}

// SelectRatio applies a picker option. RatioCustom needs a value and is
// answered through SetCustomRatio instead.
func (s *Session) SelectRatio(opt domain.RatioOption) error {
	switch opt {
	case domain.RatioCustom:
		return ErrCustomRatioValue
	case domain.RatioNone:
		s.Mutate(func(d *domain.Instrument) { d.Bezugsverhaeltnis = "" })
	default:
		s.Mutate(func(d *domain.Instrument) { d.Bezugsverhaeltnis = opt.NumericValue() })
	}
	s.advance(StepBezugsverhaeltnis)
	return nil
}

// SetCustomRatio stores "1 : N" for a user supplied denominator.
func (s *Session) SetCustomRatio(denominator string) error {
	formatted, ok := domain.FormatCustomRatio(denominator)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRatio, denominator)
	}
	s.Mutate(func(d *domain.Instrument) { d.Bezugsverhaeltnis = formatted })
	s.advance(StepBezugsverhaeltnis)
	return nil
}

func (s *Session) SetAufgeld(raw string) {
	s.Mutate(func(d *domain.Instrument) {
		d.Aufgeld = domain.SanitizeNumeric(raw)
	})
	s.advance(StepAufgeld)
}

// SetFavorite toggles the flag without leaving the step.
func (s *Session) SetFavorite(v bool) {
	s.Mutate(func(d *domain.Instrument) { d.IsFavorite = v })
}

// StartEditing jumps to step to change a single field. The current step is
// remembered and resumed once the field is answered. While editing a stored
// instrument only the edit set can be opened and the edit sequence continues
// from there, so no return step is kept.
func (s *Session) StartEditing(step Step) {
	if s.IsEditingExisting() {
		if IsEditableStep(step) {
			s.step = step
		}
		return
	}
	current := s.step
	s.returnStep = &current
	s.step = step
}

// EnterEditMode loads a stored instrument into the draft.
func (s *Session) EnterEditMode(inst domain.Instrument) {
	s.draft = inst
	s.draft.Name = s.draft.ListTitle()
	s.targetID = inst.ID
	s.returnStep = nil
	s.step = editEntryStep(inst.Emittent)
}

// ApplyImport merges imported fields and jumps to the favorite step.
func (s *Session) ApplyImport(b importer.Basics) {
	s.Mutate(b.ApplyTo)
	s.SetStep(StepFavorite)
}

// Finish turns a completed draft into a new instrument. The session is left
// untouched; the caller discards it once the result is persisted.
func (s *Session) Finish(now time.Time) (domain.Instrument, error) {
	if s.IsEditingExisting() {
		return domain.Instrument{}, ErrEditInProgress
	}
	if s.step != StepDone {
		return domain.Instrument{}, fmt.Errorf("%w: at %s", ErrNotDone, s.step)
	}
	if !IsValid(s.draft) {
		return domain.Instrument{}, ErrDraftInvalid
	}
	inst := s.draft
	inst.Name = inst.ListTitle()
	inst.Touch(now)
	return inst, nil
}

// CommitEdit copies the editable fields of the draft onto original, which
// must be the edit target. The session is left untouched; the caller discards
// it once the update is persisted.
func (s *Session) CommitEdit(original domain.Instrument, now time.Time) (domain.Instrument, error) {
	if !s.IsEditingExisting() {
		return domain.Instrument{}, ErrNotEditing
	}
	if original.ID != s.targetID {
		return domain.Instrument{}, fmt.Errorf("%w: %s", ErrTargetMismatch, original.ID)
	}
	if s.step != StepDone {
		return domain.Instrument{}, fmt.Errorf("%w: at %s", ErrNotDone, s.step)
	}
	updated := original
	updated.ISIN = s.draft.ISIN
	updated.Basispreis = s.draft.Basispreis
	updated.Aufgeld = s.draft.Aufgeld
	updated.Bezugsverhaeltnis = s.draft.Bezugsverhaeltnis
	updated.IsFavorite = s.draft.IsFavorite
	updated.Name = updated.ListTitle()
	if !updated.IsStorable() {
		return domain.Instrument{}, domain.ErrInvalidInstrument
	}
	updated.Touch(now)
	return updated, nil
}

// Discard drops the draft and any edit state.
func (s *Session) Discard() {
	s.Reset()
}
