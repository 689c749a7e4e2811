package probe

import "github.com/egtb/tbinfo/internal/tb"

// PositionProbe converts the backend's verdict on the position itself
// to a mover-perspective probe result. Nil means the position is beyond
// the tablebase.
func (r *PositionResult) PositionProbe() *tb.ProbeResult {
	if r.Wdl == nil || r.DTZ == nil {
		return nil
	}
	pr := tb.NewProbeResult(tb.Wdl(*r.Wdl), *r.DTZ, true)
	return &pr
}

// MoveProbes converts the backend's per-move verdicts, which are given
// from the opponent's perspective after the move, into mover-perspective
// probe results keyed by UCI. A move that delivers checkmate is a win
// for the mover; stalemate and insufficient material are draws.
func (r *PositionResult) MoveProbes() map[string]tb.ProbeResult {
	out := make(map[string]tb.ProbeResult, len(r.Moves))
	for _, mv := range r.Moves {
		switch {
		case mv.Checkmate:
			out[mv.UCI] = tb.NewProbeResult(tb.WdlWin, 0, false)
		case mv.Stalemate || mv.InsufficientMaterial:
			out[mv.UCI] = tb.NewProbeResult(tb.WdlDraw, 0, false)
		case mv.Wdl != nil && mv.DTZ != nil:
			out[mv.UCI] = tb.NewProbeResult(tb.Wdl(-*mv.Wdl), -*mv.DTZ, true)
		}
	}
	return out
}
