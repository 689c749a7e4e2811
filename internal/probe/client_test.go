package probe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/egtb/tbinfo/internal/probe"
	"github.com/egtb/tbinfo/internal/tb"
)

const sampleProbeBody = `{
	"checkmate": false,
	"stalemate": false,
	"insufficient_material": false,
	"wdl": 2,
	"dtz": 5,
	"category": "win",
	"moves": [
		{"uci": "a1b1", "san": "Rb1", "zeroing": false, "wdl": -2, "dtz": -4},
		{"uci": "a1a2", "san": "Ra2+", "zeroing": false, "checkmate": true},
		{"uci": "h1h2", "san": "Kh2", "zeroing": false, "stalemate": true},
		{"uci": "h1g1", "san": "Kg1", "zeroing": false, "wdl": null, "dtz": null},
		{"uci": "a1a8", "san": "Ra8", "zeroing": false, "wdl": 1, "dtz": 104}
	]
}`

func newBackend(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt64(hits, 1)
		}
		if r.URL.Query().Get("fen") == "" {
			http.Error(w, "fen required", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/standard":
			w.Write([]byte(sampleProbeBody))
		case "/standard/mainline":
			w.Write([]byte(`{"dtz": 5, "winner": "w", "mainline": [{"uci": "a1b1", "dtz": -4}, {"uci": "h8h7", "dtz": 3}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestProbe(t *testing.T) {
	ts := newBackend(t, nil)
	c := probe.NewClient(ts.URL, zerolog.Nop())

	res, err := c.Probe(context.Background(), "8/8/8/8/8/8/8/R3K2k w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Category != "win" || res.Wdl == nil || *res.Wdl != 2 {
		t.Errorf("unexpected position result: %+v", res)
	}
	if len(res.Moves) != 5 {
		t.Fatalf("got %d moves, want 5", len(res.Moves))
	}

	pr := res.PositionProbe()
	if pr == nil || pr.Wdl() != tb.WdlWin {
		t.Errorf("position probe = %v, want win", pr)
	}
	if dtz, ok := pr.DTZ(); !ok || dtz != 5 {
		t.Errorf("position DTZ = %d, %v; want 5", dtz, ok)
	}
}

func TestMoveProbesPerspective(t *testing.T) {
	ts := newBackend(t, nil)
	c := probe.NewClient(ts.URL, zerolog.Nop())

	res, err := c.Probe(context.Background(), "8/8/8/8/8/8/8/R3K2k w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	probes := res.MoveProbes()

	// Post-move loss for the opponent is a win for the mover.
	win, ok := probes["a1b1"]
	if !ok || win.Wdl() != tb.WdlWin {
		t.Errorf("a1b1 = %v, want win", win.Wdl())
	}
	if dtz, ok := win.DTZ(); !ok || dtz != 4 {
		t.Errorf("a1b1 DTZ = %d, %v; want 4", dtz, ok)
	}

	// Checkmate is a win for the mover whatever the tablebase says.
	if mate := probes["a1a2"]; mate.Wdl() != tb.WdlWin {
		t.Errorf("checkmating move = %v, want win", mate.Wdl())
	}
	if stale := probes["h1h2"]; stale.Wdl() != tb.WdlDraw {
		t.Errorf("stalemating move = %v, want draw", stale.Wdl())
	}

	// No data, no entry.
	if _, ok := probes["h1g1"]; ok {
		t.Error("moves without data must not appear")
	}

	// Fifty-move demotion applies after negation.
	if cursed := probes["a1a8"]; cursed.Wdl() != tb.WdlBlessedLoss {
		t.Errorf("a1a8 = %v, want blessed loss for the mover", cursed.Wdl())
	}
}

func TestProbeMainline(t *testing.T) {
	ts := newBackend(t, nil)
	c := probe.NewClient(ts.URL, zerolog.Nop())

	ml, err := c.ProbeMainline(context.Background(), "8/8/8/8/8/8/8/R3K2k w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if ml.DTZ != 5 || ml.Winner == nil || *ml.Winner != "w" {
		t.Errorf("unexpected mainline: %+v", ml)
	}
	if len(ml.Mainline) != 2 || ml.Mainline[0].UCI != "a1b1" {
		t.Errorf("unexpected mainline moves: %+v", ml.Mainline)
	}
}

func TestProbeBackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	c := probe.NewClient(ts.URL, zerolog.Nop())
	if _, err := c.Probe(context.Background(), "fen"); !errors.Is(err, probe.ErrBackend) {
		t.Errorf("err = %v, want ErrBackend", err)
	}
}

func TestProbeCache(t *testing.T) {
	var hits int64
	ts := newBackend(t, &hits)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := probe.NewCache(rdb, time.Minute, zerolog.Nop())
	c := probe.NewClient(ts.URL, zerolog.Nop(), probe.WithCache(cache))

	fen := "8/8/8/8/8/8/8/R3K2k w - - 0 1"
	if _, err := c.Probe(context.Background(), fen); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Probe(context.Background(), fen); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt64(&hits) != 1 {
		t.Errorf("backend hit %d times, want 1", hits)
	}

	// Expired entries fall through to the backend again.
	mr.FastForward(2 * time.Minute)
	if _, err := c.Probe(context.Background(), fen); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt64(&hits) != 2 {
		t.Errorf("backend hit %d times after expiry, want 2", hits)
	}
}
