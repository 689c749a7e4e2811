package tb_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/egtb/tbinfo/internal/tb"
)

func legalSnap(moves ...tb.MoveInfo) tb.Snapshot {
	return tb.Snapshot{Legal: true, WhiteToMove: true, Moves: moves}
}

func TestResolveIllegal(t *testing.T) {
	snap := tb.Snapshot{Legal: false, Moves: []tb.MoveInfo{{UCI: "e2e4"}}}
	res := tb.Resolve(snap, nil)
	if res.Status != tb.StatusIllegal {
		t.Fatalf("status = %v, want illegal", res.Status)
	}
	if len(res.Moves()) != 0 {
		t.Errorf("illegal position must not classify moves, got %d", len(res.Moves()))
	}
}

func TestResolveCheckmateIgnoresProbeData(t *testing.T) {
	snap := tb.Snapshot{Legal: true, Terminal: tb.TerminalCheckmate}
	// Probe data for moves that do not exist must not matter.
	probes := map[string]tb.ProbeResult{"a1a2": tb.NewProbeResult(tb.WdlWin, 3, true)}
	res := tb.Resolve(snap, probes)
	if res.Status != tb.StatusCheckmate {
		t.Fatalf("status = %v, want checkmate", res.Status)
	}
	if res.Frustrated {
		t.Error("checkmate is never frustrated")
	}
}

func TestResolveStalemate(t *testing.T) {
	snap := tb.Snapshot{Legal: true, Terminal: tb.TerminalStalemate}
	res := tb.Resolve(snap, nil)
	if res.Status != tb.StatusStalemate {
		t.Fatalf("status = %v, want stalemate", res.Status)
	}
}

func TestResolveInsufficientMaterialOverridesProbe(t *testing.T) {
	snap := tb.Snapshot{
		Legal:    true,
		Terminal: tb.TerminalInsufficientMaterial,
		Moves:    []tb.MoveInfo{{UCI: "e1e2"}},
	}
	probes := map[string]tb.ProbeResult{"e1e2": tb.NewProbeResult(tb.WdlWin, 5, true)}
	res := tb.Resolve(snap, probes)
	if res.Status != tb.StatusInsufficientMaterial {
		t.Fatalf("status = %v, want insufficient-material", res.Status)
	}
}

func TestResolveBestMoveWins(t *testing.T) {
	snap := legalSnap(
		tb.MoveInfo{UCI: "a1a2"},
		tb.MoveInfo{UCI: "a1b1"},
		tb.MoveInfo{UCI: "a1b2"},
	)
	probes := map[string]tb.ProbeResult{
		"a1a2": tb.NewProbeResult(tb.WdlLoss, -20, true),
		"a1b1": tb.NewProbeResult(tb.WdlDraw, 0, true),
		"a1b2": tb.NewProbeResult(tb.WdlWin, 11, true),
	}
	res := tb.Resolve(snap, probes)
	if res.Status != tb.StatusWin {
		t.Fatalf("status = %v, want win", res.Status)
	}
	if len(res.Winning) != 1 || len(res.Drawing) != 1 || len(res.Losing) != 1 {
		t.Errorf("move groups = %d/%d/%d, want 1/1/1", len(res.Winning), len(res.Drawing), len(res.Losing))
	}
}

func TestResolveCursedWin(t *testing.T) {
	snap := legalSnap(tb.MoveInfo{UCI: "a1a2"}, tb.MoveInfo{UCI: "a1b1"})
	probes := map[string]tb.ProbeResult{
		"a1a2": tb.NewProbeResult(tb.WdlWin, 120, true), // demoted to cursed
		"a1b1": tb.NewProbeResult(tb.WdlDraw, 0, true),
	}
	res := tb.Resolve(snap, probes)
	if res.Status != tb.StatusCursedWin {
		t.Fatalf("status = %v, want cursed-win", res.Status)
	}
	if !res.Frustrated {
		t.Error("cursed win must set the frustrated flag")
	}
}

func TestResolveBlessedLoss(t *testing.T) {
	snap := legalSnap(tb.MoveInfo{UCI: "a1a2"}, tb.MoveInfo{UCI: "a1b1"})
	probes := map[string]tb.ProbeResult{
		"a1a2": tb.NewProbeResult(tb.WdlLoss, -150, true),
		"a1b1": tb.NewProbeResult(tb.WdlLoss, -200, true),
	}
	res := tb.Resolve(snap, probes)
	if res.Status != tb.StatusBlessedLoss {
		t.Fatalf("status = %v, want blessed-loss", res.Status)
	}
	if !res.Frustrated {
		t.Error("blessed loss must set the frustrated flag")
	}
}

func TestResolveNoDataIsUnknown(t *testing.T) {
	snap := legalSnap(tb.MoveInfo{UCI: "a1a2"}, tb.MoveInfo{UCI: "a1b1"})
	res := tb.Resolve(snap, nil)
	if res.Status != tb.StatusUnknown {
		t.Fatalf("status = %v, want unknown", res.Status)
	}
	if res.Frustrated {
		t.Error("unknown status must not be frustrated")
	}
	if len(res.Unknown) != 2 {
		t.Errorf("unknown moves = %d, want 2", len(res.Unknown))
	}
}

func TestResolvePartitionsMoves(t *testing.T) {
	moves := []tb.MoveInfo{
		{UCI: "a1a2"}, {UCI: "a1b1"}, {UCI: "a1b2"}, {UCI: "a2a3"}, {UCI: "a2a4"}, {UCI: "h1h2"},
	}
	probes := map[string]tb.ProbeResult{
		"a1a2": tb.NewProbeResult(tb.WdlWin, 4, true),
		"a1b1": tb.NewProbeResult(tb.WdlWin, 130, true),
		"a1b2": tb.NewProbeResult(tb.WdlDraw, 0, true),
		"a2a3": tb.NewProbeResult(tb.WdlLoss, -130, true),
		"a2a4": tb.NewProbeResult(tb.WdlLoss, -4, true),
		// h1h2 has no data
	}
	res := tb.Resolve(legalSnap(moves...), probes)

	all := res.Moves()
	if len(all) != len(moves) {
		t.Fatalf("classified %d moves, want %d", len(all), len(moves))
	}
	seen := make(map[string]bool, len(all))
	for _, rm := range all {
		if seen[rm.UCI] {
			t.Errorf("move %s classified twice", rm.UCI)
		}
		seen[rm.UCI] = true
	}
	for _, mv := range moves {
		if !seen[mv.UCI] {
			t.Errorf("move %s missing from classification", mv.UCI)
		}
	}
	if len(res.Winning) != 1 || len(res.Cursed) != 1 || len(res.Drawing) != 1 ||
		len(res.Blessed) != 1 || len(res.Losing) != 1 || len(res.Unknown) != 1 {
		t.Errorf("unexpected grouping: %d/%d/%d/%d/%d/%d",
			len(res.Winning), len(res.Cursed), len(res.Drawing),
			len(res.Blessed), len(res.Losing), len(res.Unknown))
	}
}

func TestResolveKeepsEnumerationOrder(t *testing.T) {
	snap := legalSnap(
		tb.MoveInfo{UCI: "h1h2"},
		tb.MoveInfo{UCI: "a1a2"},
		tb.MoveInfo{UCI: "c1c2"},
	)
	probes := map[string]tb.ProbeResult{
		"h1h2": tb.NewProbeResult(tb.WdlWin, 30, true),
		"a1a2": tb.NewProbeResult(tb.WdlWin, 2, true),
		"c1c2": tb.NewProbeResult(tb.WdlWin, 10, true),
	}
	res := tb.Resolve(snap, probes)
	want := []string{"h1h2", "a1a2", "c1c2"}
	if len(res.Winning) != 3 {
		t.Fatalf("winning moves = %d, want 3", len(res.Winning))
	}
	for i, uci := range want {
		if res.Winning[i].UCI != uci {
			t.Errorf("winning[%d] = %s, want %s (no re-sorting)", i, res.Winning[i].UCI, uci)
		}
	}
}

func TestResolveEmptyListsSerializeAsArrays(t *testing.T) {
	for name, snap := range map[string]tb.Snapshot{
		"illegal":   {Legal: false},
		"stalemate": {Legal: true, Terminal: tb.TerminalStalemate},
		"unprobed":  legalSnap(tb.MoveInfo{UCI: "e2e4"}),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(tb.Resolve(snap, nil))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if strings.Contains(string(data), "null") {
				t.Errorf("empty move lists must encode as arrays: %s", data)
			}
			for _, key := range []string{"winningMoves", "cursedMoves", "drawingMoves", "blessedMoves", "losingMoves", "unknownMoves"} {
				if !strings.Contains(string(data), `"`+key+`":[`) {
					t.Errorf("missing array for %s: %s", key, data)
				}
			}
		})
	}
}
