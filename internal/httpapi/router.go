// Package httpapi serves the tablebase probe and statistics API.
package httpapi

import (
	"context"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/egtb/tbinfo/internal/material"
	"github.com/egtb/tbinfo/internal/probe"
	"github.com/egtb/tbinfo/internal/rules"
	"github.com/egtb/tbinfo/internal/stats"
	"github.com/egtb/tbinfo/internal/tb"
)

// defaultRoots are the table sets listed when no material is named:
// together they pull in every five-piece table.
const defaultRoots = "KPPPPPvK,KPPPPvKP,KPPPvKPP"

// Prober answers position queries against a tablebase backend.
type Prober interface {
	Probe(ctx context.Context, fen string) (*probe.PositionResult, error)
	ProbeMainline(ctx context.Context, fen string) (*probe.Mainline, error)
}

// Options tune the rendered statistics.
type Options struct {
	// Rounding marks one extra histogram ply, for backends serving
	// tables with rounded DTZ values.
	Rounding bool

	EmptyRunThreshold int
	MinBarWidth       float64
}

// Handler routes API requests. The stats store and the prober are both
// optional; endpoints depending on a missing collaborator degrade to
// smaller responses.
type Handler struct {
	stats  *stats.Store
	prober Prober
	opts   Options
	log    zerolog.Logger
}

// NewRouter builds the API handler with its middleware chain.
func NewRouter(log zerolog.Logger, store *stats.Store, prober Prober, opts Options) http.Handler {
	h := &Handler{stats: store, prober: prober, opts: opts, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.health)
	mux.HandleFunc("/readyz", h.health)
	mux.HandleFunc("/v1/probe", h.probe)
	mux.HandleFunc("/v1/mainline", h.mainline)
	mux.HandleFunc("/v1/stats.json", h.allStats)
	mux.HandleFunc("/v1/stats/", h.statsJSON)
	mux.HandleFunc("/v1/endgames", h.endgames)
	mux.HandleFunc("/v1/deps/", h.dependencies)
	mux.HandleFunc("/v1/graph.dot", h.graphDOT)
	mux.HandleFunc("/v1/graph/", h.graphDOT)
	mux.HandleFunc("/v1/download.txt", h.downloadTxt)
	mux.HandleFunc("/v1/download/", h.downloadTxt)

	// pprof endpoints
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return CORS(RequestID(AccessLog(log, mux)))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) probe(w http.ResponseWriter, r *http.Request) {
	fen := r.URL.Query().Get("fen")
	if fen == "" {
		writeError(w, http.StatusBadRequest, "fen required")
		return
	}

	pos, err := rules.FromFEN(fen)
	if err != nil {
		writeJSON(w, ProbeResponse{FEN: fen, Result: tb.Result{Status: tb.StatusIllegal}})
		return
	}

	snap := pos.Snapshot()
	resp := ProbeResponse{
		FEN:                pos.FEN(),
		Material:           pos.MaterialKey(),
		NormalizedMaterial: material.Normalize(pos.MaterialKey()),
		PieceCount:         pos.PieceCount(),
		CheckSquare:        pos.CheckSquare(),
	}

	var probes map[string]tb.ProbeResult
	var posProbe *tb.ProbeResult
	if snap.Legal && len(snap.Moves) > 0 && h.prober != nil {
		res, err := h.prober.Probe(r.Context(), pos.FEN())
		if err != nil {
			// Missing probe data degrades to unknown, never to a failure.
			h.log.Warn().Err(err).Str("rid", GetRequestID(r.Context())).Msg("tablebase probe failed")
		} else {
			probes = res.MoveProbes()
			posProbe = res.PositionProbe()
		}
	}

	resp.Result = tb.Resolve(snap, probes)
	if posProbe != nil {
		if dtz, ok := posProbe.DTZ(); ok {
			d := dtz
			resp.DTZ = &d
		}
	}
	resp.Stats = h.statsBlock(resp.Material, snap, resp.Result, posProbe)
	writeJSON(w, resp)
}

// statsBlock builds the aggregated statistics for a probed position, or
// nil when the material class is not published.
func (h *Handler) statsBlock(materialKey string, snap tb.Snapshot, res tb.Result, posProbe *tb.ProbeResult) *StatsBlock {
	if h.stats == nil {
		return nil
	}
	rec, flipped, err := h.stats.Get(materialKey)
	if err != nil {
		return nil
	}

	block := &StatsBlock{Outcome: rec.Outcomes(flipped)}

	materialSide, _, _ := strings.Cut(materialKey, "v")
	block.Longest = rec.LongestLabels(materialSide, flipped)

	// The active histogram bar tracks the position's own DTZ; a mate on
	// the board pins it to ply zero.
	activeDTZ, hasActive := 0, false
	switch {
	case res.Status == tb.StatusCheckmate:
		hasActive = true
	case posProbe != nil:
		if dtz, ok := posProbe.DTZ(); ok && dtz != 0 {
			activeDTZ, hasActive = dtz, true
		}
	}

	whiteWinning := snap.WhiteToMove == (hasActive && activeDTZ > 0)
	win, loss := rec.SelectHistograms(flipped, whiteWinning)
	block.Histogram = stats.BuildHistogram(win, loss, stats.HistogramOptions{
		ActiveDTZ:         activeDTZ,
		HasActiveDTZ:      hasActive,
		Rounding:          h.opts.Rounding,
		EmptyRunThreshold: h.opts.EmptyRunThreshold,
		MinBarWidth:       h.opts.MinBarWidth,
	})
	return block
}

func (h *Handler) mainline(w http.ResponseWriter, r *http.Request) {
	if h.prober == nil {
		writeError(w, http.StatusServiceUnavailable, "no tablebase backend configured")
		return
	}
	fen := r.URL.Query().Get("fen")
	if fen == "" {
		writeError(w, http.StatusBadRequest, "fen required")
		return
	}
	pos, err := rules.FromFEN(fen)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fen")
		return
	}
	if !pos.Snapshot().Legal {
		writeError(w, http.StatusBadRequest, "illegal position")
		return
	}

	ml, err := h.prober.ProbeMainline(r.Context(), pos.FEN())
	if err != nil {
		h.log.Error().Err(err).Str("rid", GetRequestID(r.Context())).Msg("mainline probe failed")
		writeError(w, http.StatusBadGateway, "tablebase backend unavailable")
		return
	}

	resp := MainlineResponse{
		FEN:      pos.FEN(),
		DTZ:      ml.DTZ,
		Winner:   ml.Winner,
		Mainline: make([]MainlineMove, 0, len(ml.Mainline)),
	}
	for _, mv := range ml.Mainline {
		resp.Mainline = append(resp.Mainline, MainlineMove{UCI: mv.UCI, SAN: mv.SAN, DTZ: mv.DTZ})
	}
	writeJSON(w, resp)
}

func (h *Handler) allStats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeError(w, http.StatusNotFound, "no statistics loaded")
		return
	}
	all := make(map[string]stats.Record, h.stats.Len())
	for _, name := range h.stats.Materials() {
		if rec, _, err := h.stats.Get(name); err == nil {
			all[name] = rec
		}
	}
	writeJSON(w, all)
}

func (h *Handler) statsJSON(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/v1/stats/"), ".json")
	if !ok || !material.IsTableName(name, false) {
		writeError(w, http.StatusNotFound, "unknown endgame")
		return
	}
	if normalized := material.Normalize(name); normalized != name {
		http.Redirect(w, r, "/v1/stats/"+normalized+".json", http.StatusMovedPermanently)
		return
	}
	if h.stats == nil {
		writeError(w, http.StatusNotFound, "no statistics loaded")
		return
	}
	rec, _, err := h.stats.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown endgame")
		return
	}
	writeJSON(w, rec)
}

func (h *Handler) endgames(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeJSON(w, []EndgameEntry{})
		return
	}
	entries := make([]EndgameEntry, 0, h.stats.Len())
	for _, name := range h.stats.Materials() {
		entry := EndgameEntry{
			Material:   name,
			PieceCount: material.PieceCount(name),
			Pawns:      material.PawnCount(name),
			Maximal:    h.stats.IsMaximal(name),
			LongestFEN: h.stats.LongestFEN(name),
		}
		if rec, _, err := h.stats.Get(name); err == nil {
			if rec.RTBW != nil {
				entry.TableBytes += rec.RTBW.Bytes
			}
			if rec.RTBZ != nil {
				entry.TableBytes += rec.RTBZ.Bytes
			}
			if entry.TableBytes > 0 {
				entry.TableSize = stats.FormatKiB(float64(entry.TableBytes) / 1024)
			}
		}
		entries = append(entries, entry)
	}
	writeJSON(w, entries)
}

func (h *Handler) dependencies(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/v1/deps/")
	if !material.IsTableName(name, false) || name == "KvK" {
		writeError(w, http.StatusNotFound, "unknown endgame")
		return
	}

	deps := material.Dependencies(name)
	resp := DependenciesResponse{
		Material:     name,
		Dependencies: make([]DependencyEntry, 0, len(deps)),
	}
	for _, dep := range deps {
		entry := DependencyEntry{Material: dep}
		if h.stats != nil {
			entry.LongestFEN = h.stats.LongestFEN(dep)
		}
		resp.Dependencies = append(resp.Dependencies, entry)
	}
	writeJSON(w, resp)
}

// parseRoots pulls the comma-separated material list out of a path like
// /v1/graph/KRvK,KQvK.dot, falling back to the default set.
func parseRoots(path, prefix, ext string) ([]string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.TrimSuffix(rest, ext)
	if rest == "" {
		rest = defaultRoots
	}
	roots := strings.Split(rest, ",")
	for _, root := range roots {
		if !material.IsTableName(root, false) {
			return nil, false
		}
	}
	return roots, true
}

func (h *Handler) graphDOT(w http.ResponseWriter, r *http.Request) {
	roots, ok := parseRoots(r.URL.Path, "/v1/graph", ".dot")
	if !ok {
		writeError(w, http.StatusNotFound, "unknown endgame")
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(material.DependencyDOT(roots...)))
}

func (h *Handler) downloadTxt(w http.ResponseWriter, r *http.Request) {
	roots, ok := parseRoots(r.URL.Path, "/v1/download", ".txt")
	if !ok {
		writeError(w, http.StatusNotFound, "unknown endgame")
		return
	}

	opts := material.DownloadOptions{
		Source: r.URL.Query().Get("source"),
		DTZ:    material.DTZSelection(r.URL.Query().Get("dtz")),
	}
	var err error
	if v := r.URL.Query().Get("max-pieces"); v != "" {
		if opts.MaxPieces, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid piece count")
			return
		}
	}
	if v := r.URL.Query().Get("min-pieces"); v != "" {
		if opts.MinPieces, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid piece count")
			return
		}
	}

	urls, err := material.DownloadList(roots, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(strings.Join(urls, "\n") + "\n"))
}
