// Package tb implements the result-classification model for Syzygy
// tablebase probe output: WDL/DTZ semantics, per-move categories and
// position status resolution. Everything here is pure; probing and move
// generation live behind the probe and rules packages.
package tb

// Wdl is the five-valued Win/Draw/Loss outcome of a position, from the
// perspective of the side to move. The 50-move-limited variants (±1)
// mark results that count as draws under the fifty-move rule.
type Wdl int8

const (
	WdlLoss        Wdl = -2
	WdlBlessedLoss Wdl = -1
	WdlDraw        Wdl = 0
	WdlCursedWin   Wdl = 1
	WdlWin         Wdl = 2
)

// FiftyMoveThreshold is the DTZ magnitude above which a forced conversion
// overruns the fifty-move rule. A DTZ value n with 1 <= n <= 100 means a
// zeroing move or checkmate can be forced in n or n+1 half-moves and the
// result counts fully; n > 100 means the win is only achievable while
// violating the fifty-move rule.
const FiftyMoveThreshold = 100

// Frustrated reports whether the outcome is limited by the fifty-move
// rule (a cursed win or blessed loss).
func (w Wdl) Frustrated() bool {
	return w == WdlCursedWin || w == WdlBlessedLoss
}

// ProbeResult is the tablebase verdict for a single move, from the
// perspective of the side making it. Construct values with
// NewProbeResult so the fifty-move invariant holds; the zero value means
// "draw, no DTZ", which is the only DTZ-less draw representation.
type ProbeResult struct {
	wdl    Wdl
	dtz    int
	hasDTZ bool
}

// NewProbeResult builds a ProbeResult, enforcing the frustration rule:
// a DTZ magnitude above FiftyMoveThreshold demotes a full win/loss to
// its 50-move-limited variant, and a draw never carries a DTZ. The DTZ
// value itself passes through unmodified; the inherent n-vs-n+1
// rounding ambiguity of the metric is never resolved here.
func NewProbeResult(wdl Wdl, dtz int, hasDTZ bool) ProbeResult {
	if hasDTZ {
		mag := dtz
		if mag < 0 {
			mag = -mag
		}
		if mag > FiftyMoveThreshold {
			switch wdl {
			case WdlWin:
				wdl = WdlCursedWin
			case WdlLoss:
				wdl = WdlBlessedLoss
			}
		}
	}
	if wdl == WdlDraw {
		return ProbeResult{wdl: WdlDraw}
	}
	return ProbeResult{wdl: wdl, dtz: dtz, hasDTZ: hasDTZ}
}

// Wdl returns the five-valued outcome.
func (p ProbeResult) Wdl() Wdl { return p.wdl }

// DTZ returns the distance-to-zeroing value and whether one is known.
func (p ProbeResult) DTZ() (int, bool) { return p.dtz, p.hasDTZ }

// EffectiveDTZ returns the remaining conversion distance once the
// fifty-move threshold is accounted for: n for 1 <= n <= 100, n - 100
// beyond it. Like the raw value, it is ambiguous by one half-move.
func (p ProbeResult) EffectiveDTZ() (int, bool) {
	if !p.hasDTZ {
		return 0, false
	}
	mag := p.dtz
	if mag < 0 {
		mag = -mag
	}
	if mag > FiftyMoveThreshold {
		mag -= FiftyMoveThreshold
	}
	return mag, true
}

// Status is the resolved game-theoretic status of a whole position.
type Status int8

const (
	StatusUnknown Status = iota
	StatusIllegal
	StatusInsufficientMaterial
	StatusCheckmate
	StatusStalemate
	StatusWin
	StatusCursedWin
	StatusDraw
	StatusBlessedLoss
	StatusLoss
)

func (s Status) String() string {
	switch s {
	case StatusIllegal:
		return "illegal"
	case StatusInsufficientMaterial:
		return "insufficient-material"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	case StatusWin:
		return "win"
	case StatusCursedWin:
		return "cursed-win"
	case StatusDraw:
		return "draw"
	case StatusBlessedLoss:
		return "blessed-loss"
	case StatusLoss:
		return "loss"
	default:
		return "unknown"
	}
}

// MarshalText lets Status serialize as its string form in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Frustrated reports whether the status is a fifty-move-rule-limited
// result. This is exactly the set {cursed-win, blessed-loss}.
func (s Status) Frustrated() bool {
	return s == StatusCursedWin || s == StatusBlessedLoss
}
