package stats_test

import (
	"strings"
	"testing"

	"github.com/egtb/tbinfo/internal/stats"
)

func consistentRecord() stats.Record {
	return stats.Record{
		Longest: []stats.LongestEntry{
			{EPD: "3n1n2/8/8/8/4R3/8/8/NK1k4 b - -", Ply: 100, Wdl: -2},
			{EPD: "6k1/5n2/8/8/8/5n2/1RK5/1N6 w - -", Ply: 485, Wdl: 1},
			{EPD: "8/8/8/8/8/8/N1nk4/RKn5 b - -", Ply: 7, Wdl: 2},
		},
		Histogram: stats.Histograms{
			White: stats.SideHistogram{
				Win:  []int64{0, 6, 4},
				Loss: []int64{1, 3},
				Wdl:  map[string]int64{"-2": 3, "-1": 1, "0": 6, "1": 2, "2": 8},
			},
			Black: stats.SideHistogram{
				Win:  []int64{2, 3},
				Loss: []int64{4, 5},
				Wdl:  map[string]int64{"-2": 7, "-1": 2, "0": 6, "1": 0, "2": 5},
			},
		},
	}
}

func TestOutcomes(t *testing.T) {
	o := consistentRecord().Outcomes(false)

	if o.White != 15 || o.Cursed != 4 || o.Draws != 12 || o.Blessed != 1 || o.Black != 8 {
		t.Fatalf("counts = %d/%d/%d/%d/%d, want 15/4/12/1/8",
			o.White, o.Cursed, o.Draws, o.Blessed, o.Black)
	}
	if o.Total() != 40 {
		t.Errorf("total = %d, want 40", o.Total())
	}
	if o.WhitePct != 37.5 || o.CursedPct != 10.0 || o.DrawsPct != 30.0 || o.BlessedPct != 2.5 || o.BlackPct != 20.0 {
		t.Errorf("percentages = %v/%v/%v/%v/%v, want 37.5/10/30/2.5/20",
			o.WhitePct, o.CursedPct, o.DrawsPct, o.BlessedPct, o.BlackPct)
	}
	if o.Warning != "" {
		t.Errorf("unexpected warning %q", o.Warning)
	}
}

func TestOutcomesFlipped(t *testing.T) {
	rec := consistentRecord()
	a, b := rec.Outcomes(false), rec.Outcomes(true)

	// Flipping the orientation trades the colors' totals.
	if b.White != a.Black || b.Black != a.White || b.Cursed != a.Blessed || b.Blessed != a.Cursed {
		t.Errorf("flipped = %+v, straight = %+v", b, a)
	}
	if b.Draws != a.Draws {
		t.Errorf("draws changed under flip: %d vs %d", b.Draws, a.Draws)
	}
}

func TestOutcomesEmptyRecord(t *testing.T) {
	o := stats.Record{}.Outcomes(false)
	if o.Total() != 0 {
		t.Fatalf("total = %d, want 0", o.Total())
	}
	// No division by zero: every percentage stays 0.0.
	if o.WhitePct != 0 || o.CursedPct != 0 || o.DrawsPct != 0 || o.BlessedPct != 0 || o.BlackPct != 0 {
		t.Errorf("percentages of an empty record must all be zero: %+v", o)
	}
}

func TestOutcomesInconsistentCounters(t *testing.T) {
	rec := consistentRecord()
	rec.Histogram.White.Win = []int64{0, 6, 3} // one position short

	o := rec.Outcomes(false)
	if o.Warning == "" {
		t.Fatal("mismatched counters must produce a warning")
	}
	if !strings.Contains(o.Warning, "white win") {
		t.Errorf("warning should name the bad counter set: %q", o.Warning)
	}
	// Aggregation is still best-effort from the wdl counters.
	if o.White != 15 {
		t.Errorf("white count = %d, want 15", o.White)
	}
}

func TestLongestLabels(t *testing.T) {
	labels := consistentRecord().LongestLabels("KRN", false)
	want := []string{
		"KRN winning with DTZ 100",
		"KRN winning with DTZ 485 (frustrated)",
		"KRN losing with DTZ 7",
	}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i := range want {
		if labels[i].Label != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, labels[i].Label, want[i])
		}
		if !strings.HasSuffix(labels[i].FEN, " 0 1") {
			t.Errorf("label[%d] FEN %q should carry move counters", i, labels[i].FEN)
		}
	}
}

func TestSelectHistograms(t *testing.T) {
	rec := consistentRecord()

	win, loss := rec.SelectHistograms(false, true)
	if win[1] != 6 || loss[1] != 5 {
		t.Errorf("straight winning selection got win[1]=%d loss[1]=%d, want 6, 5", win[1], loss[1])
	}

	win, loss = rec.SelectHistograms(false, false)
	if win[1] != 3 || loss[1] != 3 {
		t.Errorf("straight losing selection got win[1]=%d loss[1]=%d, want 3, 3", win[1], loss[1])
	}

	win, _ = rec.SelectHistograms(true, true)
	if win[0] != 2 {
		t.Errorf("flipped winning selection got win[0]=%d, want 2", win[0])
	}
}
