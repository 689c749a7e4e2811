package stats

import "math"

// HistogramRow is one rendered bar. A compressed run of empty plies is
// encoded as a row with only Empty set.
type HistogramRow struct {
	Ply    int     `json:"ply"`
	Num    int64   `json:"num"`
	Width  float64 `json:"width"`
	Active bool    `json:"active,omitempty"`
	Empty  int     `json:"empty,omitempty"`
}

// HistogramOptions shapes the rendered histogram.
type HistogramOptions struct {
	// ActiveDTZ marks the bar matching the probed position's DTZ.
	ActiveDTZ    int
	HasActiveDTZ bool

	// Rounding also marks |ActiveDTZ|+1, since rounded tables may
	// report a DTZ one ply short.
	Rounding bool

	// EmptyRunThreshold is the longest run of zero-count plies still
	// rendered as individual bars. Longer runs collapse into a single
	// Empty row. Zero means the default of 5.
	EmptyRunThreshold int

	// MinBarWidth is the floor width for any nonzero count, keeping
	// tiny populations visible. Zero means the default of 0.5.
	MinBarWidth float64
}

const (
	defaultEmptyRunThreshold = 5
	defaultMinBarWidth       = 0.5
)

// BuildHistogram merges the winner's win counts and the loser's loss
// counts per ply and renders them as log-scaled bars. The widths are
// percentages of the tallest bar, rounded to one decimal. Returns nil
// when every ply is empty.
func BuildHistogram(win, loss []int64, opts HistogramOptions) []HistogramRow {
	if opts.EmptyRunThreshold == 0 {
		opts.EmptyRunThreshold = defaultEmptyRunThreshold
	}
	if opts.MinBarWidth == 0 {
		opts.MinBarWidth = defaultMinBarWidth
	}

	n := len(win)
	if len(loss) > n {
		n = len(loss)
	}
	hist := make([]int64, n)
	for i := range hist {
		if i < len(win) {
			hist[i] += win[i]
		}
		if i < len(loss) {
			hist[i] += loss[i]
		}
	}

	var maximum float64
	any := false
	for _, num := range hist {
		if num > 0 {
			any = true
			if l := math.Log(float64(num)); l > maximum {
				maximum = l
			}
		}
	}
	if !any {
		return nil
	}

	var rows []HistogramRow
	empty := 0
	// Flushes the pending zero run before the bar at ply, or at the end
	// of the data, so the rows always cover every input ply.
	flush := func(ply int) {
		if empty == 0 {
			return
		}
		if empty > opts.EmptyRunThreshold {
			rows = append(rows, HistogramRow{Empty: empty})
		} else {
			for i := 0; i < empty; i++ {
				rows = append(rows, HistogramRow{Ply: ply - empty + i})
			}
		}
		empty = 0
	}

	for ply, num := range hist {
		if num == 0 {
			empty++
			continue
		}
		flush(ply)

		width := opts.MinBarWidth
		if maximum > 0 {
			if w := math.Round(math.Log(float64(num))*1000/maximum) / 10; w > width {
				width = w
			}
		}
		rows = append(rows, HistogramRow{
			Ply:    ply,
			Num:    num,
			Width:  width,
			Active: opts.activeAt(ply),
		})
	}
	flush(n)
	return rows
}

func (o HistogramOptions) activeAt(ply int) bool {
	if !o.HasActiveDTZ {
		return false
	}
	abs := o.ActiveDTZ
	if abs < 0 {
		abs = -abs
	}
	if abs == ply {
		return true
	}
	return o.Rounding && o.ActiveDTZ != 0 && abs+1 == ply
}

// TotalPlies reports the number of plies the rows cover, counting the
// compressed empty runs.
func TotalPlies(rows []HistogramRow) int {
	total := 0
	for _, row := range rows {
		if row.Empty > 0 {
			total += row.Empty
		} else {
			total++
		}
	}
	return total
}
