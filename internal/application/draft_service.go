package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/draft"
	"github.com/jmanzanog/ko-wizard/internal/importer"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/metrics"
)

var (
	ErrSessionNotFound    = errors.New("draft session not found")
	ErrUnknownAction      = errors.New("unknown draft action")
	ErrInvalidActionValue = errors.New("invalid draft action value")
)

// Draft action types accepted by ApplyAction.
const (
	ActionSelectAssetClass  = "selectAssetClass"
	ActionSelectSubgroup    = "selectSubgroup"
	ActionSetUnderlyingName = "setUnderlyingName"
	ActionSelectEmittent    = "selectEmittent"
	ActionSelectDirection   = "selectDirection"
	ActionSetISIN           = "setIsin"
	ActionSetBasispreis     = "setBasispreis"
	ActionSelectRatio       = "selectRatio"
	ActionSetCustomRatio    = "setCustomRatio"
	ActionSetAufgeld        = "setAufgeld"
	ActionSetFavorite       = "setFavorite"
	ActionAdvance           = "advance"
	ActionStartEditing      = "startEditing"
	ActionSetStep           = "setStep"
	ActionReset             = "reset"
)

// Action is one user interaction with a wizard session.
type Action struct {
	Type  string `json:"type" binding:"required"`
	Value string `json:"value"`
}

type draftEntry struct {
	mu      sync.Mutex
	session *draft.Session
	flow    importer.Flow
}

type SubgroupOption struct {
	ID   domain.Subgroup `json:"id"`
	Name string          `json:"name"`
}

// DraftView is the wizard state exposed to clients.
type DraftView struct {
	ID              string            `json:"id"`
	Step            string            `json:"step"`
	Mode            string            `json:"mode"`
	ReturnStep      string            `json:"returnStep,omitempty"`
	EditingTargetID string            `json:"editingTargetId,omitempty"`
	Draft           domain.Instrument `json:"draft"`
	Subgroups       []SubgroupOption  `json:"subgroups"`
	NeedsISIN       bool              `json:"needsIsin"`
	NeedsRatio      bool              `json:"needsRatio"`
	RatioOption     string            `json:"ratioOption"`
	Valid           bool              `json:"valid"`
	ImportState     string            `json:"importState"`
	ImportLabel     string            `json:"importLabel"`
}

func newDraftView(id string, e *draftEntry) DraftView {
	sess := e.session
	d := sess.Draft()
	view := DraftView{
		ID:          id,
		Step:        sess.Step().String(),
		Mode:        sess.Mode().String(),
		Draft:       d,
		Subgroups:   make([]SubgroupOption, 0),
		NeedsISIN:   sess.NeedsISIN(),
		NeedsRatio:  sess.NeedsRatio(),
		RatioOption: string(domain.RatioOptionForValue(d.Bezugsverhaeltnis)),
		Valid:       draft.IsValid(d),
		ImportState: e.flow.State().String(),
		ImportLabel: e.flow.State().Label(),
	}
	if rs, ok := sess.ReturnStep(); ok {
		view.ReturnStep = rs.String()
	}
	if target, ok := sess.EditingTargetID(); ok {
		view.EditingTargetID = target
	}
	for _, sg := range sess.Subgroups() {
		view.Subgroups = append(view.Subgroups, SubgroupOption{ID: sg, Name: sg.DisplayName()})
	}
	return view
}

func (s *InstrumentService) openDraft(sess *draft.Session) (string, *draftEntry) {
	id := uuid.New().String()
	e := &draftEntry{session: sess}

	s.mu.Lock()
	s.drafts[id] = e
	s.mu.Unlock()

	metrics.ActiveDrafts.Inc()
	return id, e
}

func (s *InstrumentService) lookupDraft(id string) (*draftEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

func (s *InstrumentService) closeDraft(id string) bool {
	s.mu.Lock()
	_, ok := s.drafts[id]
	delete(s.drafts, id)
	s.mu.Unlock()
	if ok {
		metrics.ActiveDrafts.Dec()
	}
	return ok
}

// CreateDraft opens a new wizard session at the asset class step.
func (s *InstrumentService) CreateDraft(ctx context.Context) DraftView {
	id, e := s.openDraft(draft.New())
	slog.DebugContext(ctx, "Draft session opened", "session", id)

	e.mu.Lock()
	defer e.mu.Unlock()
	return newDraftView(id, e)
}

// EditInstrument opens a session that edits a stored instrument.
func (s *InstrumentService) EditInstrument(ctx context.Context, instrumentID string) (DraftView, error) {
	inst, err := s.repo.FindByID(ctx, instrumentID)
	if err != nil {
		return DraftView{}, fmt.Errorf("failed to get instrument: %w", err)
	}
	sess := draft.New()
	sess.EnterEditMode(*inst)

	id, e := s.openDraft(sess)
	slog.DebugContext(ctx, "Edit session opened", "session", id, "instrument", instrumentID)

	e.mu.Lock()
	defer e.mu.Unlock()
	return newDraftView(id, e), nil
}

func (s *InstrumentService) GetDraft(_ context.Context, id string) (DraftView, error) {
	e, err := s.lookupDraft(id)
	if err != nil {
		return DraftView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return newDraftView(id, e), nil
}

// DiscardDraft drops the session and everything entered in it.
func (s *InstrumentService) DiscardDraft(ctx context.Context, id string) error {
	if !s.closeDraft(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	slog.DebugContext(ctx, "Draft session discarded", "session", id)
	return nil
}

// ApplyAction dispatches one interaction to the session. The returned view
// reflects the state after the action, also when the action was rejected.
func (s *InstrumentService) ApplyAction(ctx context.Context, id string, action Action) (DraftView, error) {
	e, err := s.lookupDraft(id)
	if err != nil {
		return DraftView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := applyAction(e.session, action); err != nil {
		slog.DebugContext(ctx, "Draft action rejected", "session", id, "type", action.Type, "error", err)
		return newDraftView(id, e), err
	}
	return newDraftView(id, e), nil
}

func invalidValue(a Action) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidActionValue, a.Type, a.Value)
}

func applyAction(sess *draft.Session, a Action) error {
	switch a.Type {
	case ActionSelectAssetClass:
		ac, ok := domain.ParseAssetClass(a.Value)
		if !ok || ac == domain.AssetClassNone {
			return invalidValue(a)
		}
		sess.SelectAssetClass(ac)
	case ActionSelectSubgroup:
		sg, ok := domain.ParseSubgroup(a.Value)
		if !ok || sg == domain.SubgroupNone {
			return invalidValue(a)
		}
		return sess.SelectSubgroup(sg)
	case ActionSetUnderlyingName:
		return sess.SetUnderlyingName(a.Value)
	case ActionSelectEmittent:
		e, ok := domain.ParseEmittent(a.Value)
		if !ok || e == domain.EmittentNone {
			return invalidValue(a)
		}
		sess.SelectEmittent(e)
	case ActionSelectDirection:
		d, ok := domain.ParseDirection(a.Value)
		if !ok || d == domain.DirectionNone {
			return invalidValue(a)
		}
		sess.SelectDirection(d)
	case ActionSetISIN:
		sess.SetISIN(a.Value)
	case ActionSetBasispreis:
		sess.SetBasispreis(a.Value)
	case ActionSelectRatio:
		o, ok := domain.ParseRatioOption(a.Value)
		if !ok {
			return invalidValue(a)
		}
		return sess.SelectRatio(o)
	case ActionSetCustomRatio:
		return sess.SetCustomRatio(a.Value)
	case ActionSetAufgeld:
		sess.SetAufgeld(a.Value)
	case ActionSetFavorite:
		v, err := strconv.ParseBool(a.Value)
		if err != nil {
			return invalidValue(a)
		}
		sess.SetFavorite(v)
	case ActionAdvance:
		sess.Advance()
	case ActionStartEditing, ActionSetStep:
		step, ok := draft.ParseStep(a.Value)
		if !ok {
			return invalidValue(a)
		}
		if a.Type == ActionStartEditing {
			sess.StartEditing(step)
		} else {
			sess.SetStep(step)
		}
	case ActionReset:
		sess.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return nil
}

// ImportResult is the draft after one press of the import toggle.
type ImportResult struct {
	Draft    DraftView        `json:"draft"`
	Imported *importer.Basics `json:"imported,omitempty"`
}

// PressImport advances the session's import toggle. text is read on the press
// that leaves the awaiting state; the following press parses it and merges
// the result into the draft.
func (s *InstrumentService) PressImport(ctx context.Context, id, text string) (ImportResult, error) {
	e, err := s.lookupDraft(id)
	if err != nil {
		return ImportResult{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	basics, ok := e.flow.Press(importer.TextFunc(func() string { return text }))
	if !ok {
		return ImportResult{Draft: newDraftView(id, e)}, nil
	}
	recordImport(ctx, basics)
	e.session.ApplyImport(basics)
	return ImportResult{Draft: newDraftView(id, e), Imported: &basics}, nil
}

// CommitDraft stores the result of a finished session and closes it. A new
// instrument is added; an edit session updates its target.
func (s *InstrumentService) CommitDraft(ctx context.Context, id string) (*domain.Instrument, error) {
	e, err := s.lookupDraft(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		result domain.Instrument
		kind   string
	)
	if targetID, editing := e.session.EditingTargetID(); editing {
		original, err := s.repo.FindByID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("failed to get edit target: %w", err)
		}
		result, err = e.session.CommitEdit(*original, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to commit edit: %w", err)
		}
		if err := s.repo.Update(ctx, result); err != nil {
			return nil, fmt.Errorf("failed to update instrument: %w", err)
		}
		kind = "edited"
	} else {
		result, err = e.session.Finish(s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to finish draft: %w", err)
		}
		newID, err := s.repo.Add(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("failed to add instrument: %w", err)
		}
		result.ID = newID
		kind = "created"
	}

	e.session.Discard()
	s.closeDraft(id)
	metrics.DraftsFinishedTotal.WithLabelValues(kind).Inc()
	slog.InfoContext(ctx, "Instrument saved", "id", result.ID, "kind", kind, "name", result.Name)
	return &result, nil
}
