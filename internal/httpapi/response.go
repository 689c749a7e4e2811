package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/egtb/tbinfo/internal/stats"
	"github.com/egtb/tbinfo/internal/tb"
)

// ProbeResponse is the answer to a position probe: identification of
// the position, its resolved status, and the classified moves, plus the
// endgame statistics block when the material class is published.
type ProbeResponse struct {
	FEN                string `json:"fen"`
	Material           string `json:"material"`
	NormalizedMaterial string `json:"normalizedMaterial"`
	PieceCount         int    `json:"pieceCount"`
	CheckSquare        string `json:"checkSquare,omitempty"`

	// DTZ of the position itself, mover-signed, when known.
	DTZ *int `json:"dtz,omitempty"`

	tb.Result

	Stats *StatsBlock `json:"stats,omitempty"`
}

// StatsBlock is the aggregated statistics view attached to a probe.
type StatsBlock struct {
	stats.Outcome

	Longest   []stats.LongestLabel `json:"longest,omitempty"`
	Histogram []stats.HistogramRow `json:"histogram,omitempty"`
}

// EndgameEntry is one row of the endgame listing.
type EndgameEntry struct {
	Material   string `json:"material"`
	PieceCount int    `json:"pieceCount"`
	Pawns      int    `json:"pawns"`
	Maximal    bool   `json:"maximal"`
	LongestFEN string `json:"longestFen,omitempty"`

	// Combined size of the class's WDL and DTZ table files.
	TableBytes int64  `json:"tableBytes,omitempty"`
	TableSize  string `json:"tableSize,omitempty"`
}

// DependencyEntry names one endgame class a table depends on.
type DependencyEntry struct {
	Material   string `json:"material"`
	LongestFEN string `json:"longestFen,omitempty"`
}

// DependenciesResponse lists the classes reachable from one table by a
// single capture or promotion.
type DependenciesResponse struct {
	Material     string            `json:"material"`
	Dependencies []DependencyEntry `json:"dependencies"`
}

// MainlineResponse is the principal DTZ line of a position.
type MainlineResponse struct {
	FEN      string         `json:"fen"`
	DTZ      int            `json:"dtz"`
	Winner   *string        `json:"winner"`
	Mainline []MainlineMove `json:"mainline"`
}

type MainlineMove struct {
	UCI string `json:"uci"`
	SAN string `json:"san,omitempty"`
	DTZ int    `json:"dtz"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
