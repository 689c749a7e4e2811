// Package probe queries a tablebase backend over HTTP and converts its
// answers into the classifier's domain types.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// ErrBackend reports a non-OK answer from the tablebase backend.
var ErrBackend = errors.New("probe: backend error")

const defaultTimeout = 10 * time.Second

// MoveResult is the backend's verdict on one legal move, seen from the
// perspective of the side to move after the move. Wdl and DTZ are nil
// when the resulting position is beyond the tablebase.
type MoveResult struct {
	UCI                  string `json:"uci"`
	SAN                  string `json:"san"`
	Zeroing              bool   `json:"zeroing"`
	Checkmate            bool   `json:"checkmate"`
	Stalemate            bool   `json:"stalemate"`
	InsufficientMaterial bool   `json:"insufficient_material"`
	Wdl                  *int   `json:"wdl"`
	DTZ                  *int   `json:"dtz"`
}

// PositionResult is the backend's verdict on a probed position.
type PositionResult struct {
	Checkmate            bool         `json:"checkmate"`
	Stalemate            bool         `json:"stalemate"`
	InsufficientMaterial bool         `json:"insufficient_material"`
	Wdl                  *int         `json:"wdl"`
	DTZ                  *int         `json:"dtz"`
	Category             string       `json:"category"`
	Moves                []MoveResult `json:"moves"`
}

// MainlineMove is one step of the backend's principal DTZ line.
type MainlineMove struct {
	UCI string `json:"uci"`
	SAN string `json:"san,omitempty"`
	DTZ int    `json:"dtz"`
}

// Mainline is the backend's principal DTZ line for a position.
type Mainline struct {
	DTZ      int            `json:"dtz"`
	Mainline []MainlineMove `json:"mainline"`
	Winner   *string        `json:"winner"`
}

// Client probes a lila-tablebase compatible backend.
type Client struct {
	base    string
	http    *fasthttp.Client
	timeout time.Duration
	cache   *Cache
	log     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout used when the context
// carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCache adds a response cache in front of the backend.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient builds a probe client for the given backend base URL, e.g.
// "http://localhost:9000".
func NewClient(base string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		base:    base,
		http:    &fasthttp.Client{Name: "tbinfo"},
		timeout: defaultTimeout,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe fetches the backend's verdict for a position.
func (c *Client) Probe(ctx context.Context, fen string) (*PositionResult, error) {
	var out PositionResult
	if err := c.getJSON(ctx, c.base+"/standard?fen="+url.QueryEscape(fen), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProbeMainline fetches the backend's principal DTZ line for a
// position.
func (c *Client) ProbeMainline(ctx context.Context, fen string) (*Mainline, error) {
	var out Mainline
	if err := c.getJSON(ctx, c.base+"/standard/mainline?fen="+url.QueryEscape(fen), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, uri string, out any) error {
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, uri); ok {
			return json.Unmarshal(body, out)
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		return fmt.Errorf("probe: %s: %w", uri, err)
	}

	c.log.Debug().
		Str("uri", uri).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("backend probe")

	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("%w: status %d", ErrBackend, resp.StatusCode())
	}

	body := resp.Body()
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("probe: decode %s: %w", uri, err)
	}
	if c.cache != nil {
		c.cache.Set(ctx, uri, body)
	}
	return nil
}
