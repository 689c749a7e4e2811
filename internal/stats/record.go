// Package stats loads the published per-endgame statistics and
// aggregates them into outcome counts, percentages, and DTZ histograms.
package stats

import (
	"fmt"
	"math"
	"strings"
)

// FileInfo describes one published table file.
type FileInfo struct {
	Bytes   int64  `json:"bytes"`
	TBCheck string `json:"tbcheck,omitempty"`
	MD5     string `json:"md5,omitempty"`
	SHA1    string `json:"sha1,omitempty"`
	SHA256  string `json:"sha256,omitempty"`
	SHA512  string `json:"sha512,omitempty"`
	B2      string `json:"b2,omitempty"`
	IPFS    string `json:"ipfs,omitempty"`
}

// LongestEntry is one of the record's extremal positions: the longest
// win for either side, with and without the fifty-move rule.
type LongestEntry struct {
	EPD string `json:"epd"`
	Ply int    `json:"ply"`
	Wdl int    `json:"wdl"`
}

// SideHistogram holds the counters for one side to move: positions won
// or lost in exactly n plies, and the totals per WDL value keyed by its
// decimal string ("-2" through "2").
type SideHistogram struct {
	Win  []int64          `json:"win"`
	Loss []int64          `json:"loss"`
	Wdl  map[string]int64 `json:"wdl"`
}

// Histograms groups the per-side counters.
type Histograms struct {
	White SideHistogram `json:"white"`
	Black SideHistogram `json:"black"`
}

// Record is the complete statistics record for one endgame class, as
// published in stats.json.
type Record struct {
	RTBW      *FileInfo      `json:"rtbw,omitempty"`
	RTBZ      *FileInfo      `json:"rtbz,omitempty"`
	Longest   []LongestEntry `json:"longest"`
	Histogram Histograms     `json:"histogram"`
}

// Outcome is the aggregated view of a record from the perspective of
// the requested material key: totals and percentages per game-theoretic
// result. Warning is set when the record's counters do not add up; the
// aggregate is still the best-effort sum of what is there.
type Outcome struct {
	White   int64 `json:"white"`
	Cursed  int64 `json:"cursed"`
	Draws   int64 `json:"draws"`
	Blessed int64 `json:"blessed"`
	Black   int64 `json:"black"`

	WhitePct   float64 `json:"whitePct"`
	CursedPct  float64 `json:"cursedPct"`
	DrawsPct   float64 `json:"drawsPct"`
	BlessedPct float64 `json:"blessedPct"`
	BlackPct   float64 `json:"blackPct"`

	Warning string `json:"warning,omitempty"`
}

// Total is the number of unique positions the outcome covers.
func (o Outcome) Total() int64 {
	return o.White + o.Cursed + o.Draws + o.Blessed + o.Black
}

func (h SideHistogram) wdl(key string) int64 {
	return h.Wdl[key]
}

func sum(nums []int64) int64 {
	var t int64
	for _, n := range nums {
		t += n
	}
	return t
}

// Outcomes folds the record's per-side WDL totals into outcome counts
// for the requested orientation. With flipped set, the record is stored
// from the opposite color's perspective and the sides trade places.
func (r Record) Outcomes(flipped bool) Outcome {
	side, other := r.Histogram.White, r.Histogram.Black
	if flipped {
		side, other = other, side
	}

	o := Outcome{
		White:   side.wdl("2") + other.wdl("-2"),
		Cursed:  side.wdl("1") + other.wdl("-1"),
		Draws:   side.wdl("0") + other.wdl("0"),
		Blessed: side.wdl("-1") + other.wdl("1"),
		Black:   side.wdl("-2") + other.wdl("2"),
	}

	if total := o.Total(); total > 0 {
		o.WhitePct = pct(o.White, total)
		o.CursedPct = pct(o.Cursed, total)
		o.DrawsPct = pct(o.Draws, total)
		o.BlessedPct = pct(o.Blessed, total)
		o.BlackPct = pct(o.Black, total)
	}

	o.Warning = r.checkCounters()
	return o
}

// pct rounds count*100/total to one decimal place.
func pct(count, total int64) float64 {
	return math.Round(float64(count)*1000/float64(total)) / 10
}

// checkCounters cross-checks the ply histograms against the WDL totals.
// The positions won in some number of plies must add up to the winning
// WDL counters, cursed wins included, and likewise for losses.
func (r Record) checkCounters() string {
	var problems []string
	for _, side := range []struct {
		name string
		h    SideHistogram
	}{{"white", r.Histogram.White}, {"black", r.Histogram.Black}} {
		if side.h.Wdl == nil {
			continue
		}
		if got, want := sum(side.h.Win), side.h.wdl("2")+side.h.wdl("1"); got != want {
			problems = append(problems, fmt.Sprintf("%s win histogram sums to %d, wdl counters say %d", side.name, got, want))
		}
		if got, want := sum(side.h.Loss), side.h.wdl("-2")+side.h.wdl("-1"); got != want {
			problems = append(problems, fmt.Sprintf("%s loss histogram sums to %d, wdl counters say %d", side.name, got, want))
		}
	}
	return strings.Join(problems, "; ")
}

// LongestLabel describes one extremal position in human terms, e.g.
// "KRN winning with DTZ 485 (frustrated)".
type LongestLabel struct {
	Label string `json:"label"`
	FEN   string `json:"fen"`
}

// LongestLabels renders the record's extremal positions relative to the
// requested material key. materialSide is the first side of that key;
// sideChar is "w" when the record is read as stored and "b" when
// flipped.
func (r Record) LongestLabels(materialSide string, flipped bool) []LongestLabel {
	sideChar := " w"
	if flipped {
		sideChar = " b"
	}
	out := make([]LongestLabel, 0, len(r.Longest))
	for _, l := range r.Longest {
		verb := "losing"
		if (l.Wdl > 0) == strings.Contains(l.EPD, sideChar) {
			verb = "winning"
		}
		frustrated := ""
		if l.Wdl == 1 || l.Wdl == -1 {
			frustrated = " (frustrated)"
		}
		out = append(out, LongestLabel{
			Label: fmt.Sprintf("%s %s with DTZ %d%s", materialSide, verb, l.Ply, frustrated),
			FEN:   l.EPD + " 0 1",
		})
	}
	return out
}

// SelectHistograms picks the two ply histograms relevant to a probed
// position: the winner's win counts and the loser's loss counts, with
// flipped and sideWinning choosing the orientation.
func (r Record) SelectHistograms(flipped, sideWinning bool) (win, loss []int64) {
	side, other := r.Histogram.White, r.Histogram.Black
	if flipped {
		side, other = other, side
	}
	if sideWinning {
		return side.Win, other.Loss
	}
	return side.Loss, other.Win
}
