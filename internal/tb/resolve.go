package tb

// Terminal is the rules collaborator's verdict on a position with no
// tablebase involvement.
type Terminal int8

const (
	TerminalNone Terminal = iota
	TerminalCheckmate
	TerminalStalemate
	TerminalInsufficientMaterial
)

// Snapshot is the immutable view of a position the resolver works from:
// legality, terminal status, and the ordered legal moves, all supplied
// by the rules collaborator.
type Snapshot struct {
	Legal       bool
	Terminal    Terminal
	WhiteToMove bool
	Moves       []MoveInfo
}

// Result is the complete classification record for a position: its
// status, the frustrated flag, and every legal move partitioned into
// exactly one category list, in the order the rules collaborator
// enumerated them.
type Result struct {
	Status     Status       `json:"status"`
	Frustrated bool         `json:"frustrated"`
	Winning    []RenderMove `json:"winningMoves"`
	Cursed     []RenderMove `json:"cursedMoves"`
	Drawing    []RenderMove `json:"drawingMoves"`
	Blessed    []RenderMove `json:"blessedMoves"`
	Losing     []RenderMove `json:"losingMoves"`
	Unknown    []RenderMove `json:"unknownMoves"`
}

// Moves returns all classified moves in enumeration order.
func (r Result) Moves() []RenderMove {
	out := make([]RenderMove, 0,
		len(r.Winning)+len(r.Cursed)+len(r.Drawing)+len(r.Blessed)+len(r.Losing)+len(r.Unknown))
	out = append(out, r.Winning...)
	out = append(out, r.Cursed...)
	out = append(out, r.Drawing...)
	out = append(out, r.Blessed...)
	out = append(out, r.Losing...)
	out = append(out, r.Unknown...)
	return out
}

// Resolve turns a position snapshot and the per-move probe results into
// a Result. It is a pure function: every input resolves to exactly one
// status, and missing probe data degrades to unknown, never to an error.
//
// Status is decided in priority order: illegality first (no moves are
// classified for an illegal position), then insufficient material
// (knowable locally, overriding any tablebase data), then mate and
// stalemate for positions without legal moves, and finally the best
// value the side to move can reach among its classified moves.
func Resolve(snap Snapshot, probes map[string]ProbeResult) Result {
	// The six lists always serialize as arrays, never null.
	res := Result{
		Status:  StatusUnknown,
		Winning: []RenderMove{},
		Cursed:  []RenderMove{},
		Drawing: []RenderMove{},
		Blessed: []RenderMove{},
		Losing:  []RenderMove{},
		Unknown: []RenderMove{},
	}

	if !snap.Legal {
		res.Status = StatusIllegal
		return res
	}

	for _, mv := range snap.Moves {
		var probe *ProbeResult
		if pr, ok := probes[mv.UCI]; ok {
			probe = &pr
		}
		rm := Classify(mv, probe)
		switch rm.Category {
		case CategoryWinning:
			res.Winning = append(res.Winning, rm)
		case CategoryCursed:
			res.Cursed = append(res.Cursed, rm)
		case CategoryDrawing:
			res.Drawing = append(res.Drawing, rm)
		case CategoryBlessed:
			res.Blessed = append(res.Blessed, rm)
		case CategoryLosing:
			res.Losing = append(res.Losing, rm)
		default:
			res.Unknown = append(res.Unknown, rm)
		}
	}

	switch {
	case snap.Terminal == TerminalInsufficientMaterial:
		res.Status = StatusInsufficientMaterial
	case len(snap.Moves) == 0 && snap.Terminal == TerminalCheckmate:
		res.Status = StatusCheckmate
	case len(snap.Moves) == 0 && snap.Terminal == TerminalStalemate:
		res.Status = StatusStalemate
	case len(res.Winning) > 0:
		res.Status = StatusWin
	case len(res.Cursed) > 0:
		res.Status = StatusCursedWin
	case len(res.Drawing) > 0:
		res.Status = StatusDraw
	case len(res.Blessed) > 0:
		res.Status = StatusBlessedLoss
	case len(res.Losing) > 0:
		res.Status = StatusLoss
	}

	res.Frustrated = res.Status.Frustrated()
	return res
}
