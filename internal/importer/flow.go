package importer

import "strings"

// TextSource provides the text to import, typically the clipboard.
type TextSource interface {
	ReadText() string
}

// TextFunc adapts a function to TextSource.
type TextFunc func() string

func (f TextFunc) ReadText() string { return f() }

type FlowState int

const (
	FlowIdle FlowState = iota
	FlowAwaitingText
	FlowReadyToImport
)

func (s FlowState) String() string {
	switch s {
	case FlowAwaitingText:
		return "awaitingClipboard"
	case FlowReadyToImport:
		return "readyToImport"
	default:
		return "idle"
	}
}

// Label is the caption of the import button in this state.
func (s FlowState) Label() string {
	switch s {
	case FlowAwaitingText:
		return "Von Zwischenablage einfügen"
	case FlowReadyToImport:
		return "Start Import"
	default:
		return "Import"
	}
}

// Flow is the three step import toggle: arm, read text, import.
// It is owned by one draft session and is not safe for concurrent use.
type Flow struct {
	state   FlowState
	pending string
}

func (f *Flow) State() FlowState {
	return f.state
}

// Press advances the toggle by one step. On the third press the pending text
// is parsed and returned with ok set; the flow is then idle again. An empty
// read in the second step resets the flow to idle.
func (f *Flow) Press(src TextSource) (Basics, bool) {
	switch f.state {
	case FlowIdle:
		f.state = FlowAwaitingText
	case FlowAwaitingText:
		text := ""
		if src != nil {
			text = strings.TrimSpace(src.ReadText())
		}
		if text == "" {
			f.Reset()
			return Basics{}, false
		}
		f.pending = text
		f.state = FlowReadyToImport
	case FlowReadyToImport:
		basics := Parse(f.pending)
		f.Reset()
		return basics, true
	}
	return Basics{}, false
}

func (f *Flow) Reset() {
	f.state = FlowIdle
	f.pending = ""
}
