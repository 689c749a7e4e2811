package tb

// Category is the classification of a single legal move. The six
// categories partition the legal move set: every move lands in exactly
// one of them.
type Category int8

const (
	CategoryUnknown Category = iota
	CategoryWinning
	CategoryCursed
	CategoryDrawing
	CategoryBlessed
	CategoryLosing
)

func (c Category) String() string {
	switch c {
	case CategoryWinning:
		return "winning"
	case CategoryCursed:
		return "cursed"
	case CategoryDrawing:
		return "drawing"
	case CategoryBlessed:
		return "blessed"
	case CategoryLosing:
		return "losing"
	default:
		return "unknown"
	}
}

// MarshalText lets Category serialize as its string form in JSON.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MoveInfo describes one legal move as enumerated by the rules
// collaborator.
type MoveInfo struct {
	UCI     string
	SAN     string
	FEN     string // position after the move
	Capture bool
	Zeroing bool // capture or pawn move: resets the fifty-move counter
}

// RenderMove is the classification output for one legal move, ready for
// serialization.
type RenderMove struct {
	UCI      string   `json:"uci"`
	SAN      string   `json:"san"`
	FEN      string   `json:"fen"`
	Capture  bool     `json:"capture,omitempty"`
	Zeroing  bool     `json:"zeroing,omitempty"`
	DTZ      int      `json:"dtz,omitempty"`
	Category Category `json:"category"`
}

// Classify assigns exactly one category to a legal move. A nil probe
// result means the tablebase has no data for the move and always yields
// CategoryUnknown; the classifier never invents or interpolates values.
//
// The displayed DTZ is the magnitude of the raw value and is only
// carried for decisive categories; a DTZ of zero carries no information
// and is dropped along with drawing and unknown moves.
func Classify(move MoveInfo, probe *ProbeResult) RenderMove {
	rm := RenderMove{
		UCI:      move.UCI,
		SAN:      move.SAN,
		FEN:      move.FEN,
		Capture:  move.Capture,
		Zeroing:  move.Zeroing,
		Category: CategoryUnknown,
	}
	if probe == nil {
		return rm
	}

	switch probe.Wdl() {
	case WdlWin:
		rm.Category = CategoryWinning
	case WdlCursedWin:
		rm.Category = CategoryCursed
	case WdlDraw:
		rm.Category = CategoryDrawing
	case WdlBlessedLoss:
		rm.Category = CategoryBlessed
	case WdlLoss:
		rm.Category = CategoryLosing
	}

	if rm.Category == CategoryDrawing || rm.Category == CategoryUnknown {
		return rm
	}
	if dtz, ok := probe.DTZ(); ok {
		if dtz < 0 {
			dtz = -dtz
		}
		rm.DTZ = dtz
	}
	return rm
}
