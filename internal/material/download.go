package material

import (
	"errors"
	"fmt"
	"strings"
)

// Mirror bases for published table files.
const (
	lichessBase = "https://tablebase.lichess.ovh/tables/standard"
	sesseBase   = "http://tablebase.sesse.net/syzygy"

	// Pinned IPFS directory objects. The small-table set is more
	// reliably seeded than the 7-piece one.
	ipfsSmall = "QmNbKYpPyXFAHFMnAxoc2i28Jf7jhShM8EEnfWUMv6u2DQ"
	ipfsLarge = "QmVgcSADsoW5w19MkL2RNKNPGtaz7UhGhU62XRm6pQmzct"
)

// DTZSelection controls which table kinds a download list includes.
type DTZSelection string

const (
	// DTZAll lists WDL and DTZ files for every endgame class.
	DTZAll DTZSelection = "all"
	// DTZOnly lists only DTZ files.
	DTZOnly DTZSelection = "only"
	// DTZRoot lists WDL files everywhere but DTZ files only for the
	// requested roots, the minimal set needed to probe them.
	DTZRoot DTZSelection = "root"
)

var (
	ErrUnknownSource = errors.New("material: unknown download source")
	ErrBadSelection  = errors.New("material: unknown dtz selection")
)

// DownloadOptions narrows and shapes a download list.
type DownloadOptions struct {
	Source    string       // lichess, sesse, ipfs, stem, file
	DTZ       DTZSelection // defaults to DTZAll
	MinPieces int          // defaults to 3
	MaxPieces int          // defaults to MaxPieces
}

// DownloadList returns the mirror URLs (or bare names, for the stem and
// file sources) of every table needed to probe the given roots,
// covering the full dependency closure, ordered by Less.
func DownloadList(roots []string, opts DownloadOptions) ([]string, error) {
	if opts.Source == "" {
		opts.Source = "lichess"
	}
	if opts.DTZ == "" {
		opts.DTZ = DTZAll
	}
	switch opts.DTZ {
	case DTZAll, DTZOnly, DTZRoot:
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadSelection, opts.DTZ)
	}
	if opts.MinPieces == 0 {
		opts.MinPieces = 3
	}
	if opts.MaxPieces == 0 {
		opts.MaxPieces = MaxPieces
	}

	isRoot := make(map[string]bool, len(roots))
	for _, r := range roots {
		isRoot[Normalize(r)] = true
	}

	var out []string
	for _, table := range AllDependencies(roots...) {
		if pc := PieceCount(table); pc < opts.MinPieces || pc > opts.MaxPieces {
			continue
		}
		wdl := opts.DTZ != DTZOnly
		dtz := opts.DTZ != DTZRoot || isRoot[table]

		urls, err := tableURLs(table, opts.Source, wdl, dtz)
		if err != nil {
			return nil, err
		}
		out = append(out, urls...)
	}
	return out, nil
}

func tableURLs(table, source string, wdl, dtz bool) ([]string, error) {
	var out []string
	add := func(include bool, format string, args ...any) {
		if include {
			out = append(out, fmt.Sprintf(format, args...))
		}
	}

	switch source {
	case "lichess", "lichess.org", "lichess.ovh", "tablebase.lichess.ovh":
		switch pc := PieceCount(table); {
		case pc <= 5:
			add(wdl, "%s/3-4-5/%s.rtbw", lichessBase, table)
			add(dtz, "%s/3-4-5/%s.rtbz", lichessBase, table)
		case pc == 6:
			add(wdl, "%s/6-wdl/%s.rtbw", lichessBase, table)
			add(dtz, "%s/6-dtz/%s.rtbz", lichessBase, table)
		default:
			w, b, _ := strings.Cut(table, "v")
			kind := "pawnless"
			if PawnCount(table) > 0 {
				kind = "pawnful"
			}
			add(wdl, "%s/7/%dv%d_%s/%s.rtbw", lichessBase, len(w), len(b), kind, table)
			add(dtz, "%s/7/%dv%d_%s/%s.rtbz", lichessBase, len(w), len(b), kind, table)
		}
	case "sesse", "sesse.net", "tablebase.sesse.net":
		switch pc := PieceCount(table); {
		case pc <= 5:
			add(wdl, "%s/3-4-5/%s.rtbw", sesseBase, table)
			add(dtz, "%s/3-4-5/%s.rtbz", sesseBase, table)
		case pc == 6:
			add(wdl, "%s/6-WDL/%s.rtbw", sesseBase, table)
			add(dtz, "%s/6-DTZ/%s.rtbz", sesseBase, table)
		default:
			add(wdl, "%s/7-WDL/%s.rtbw", sesseBase, table)
			add(dtz, "%s/7-DTZ/%s.rtbz", sesseBase, table)
		}
	case "ipfs", "ipfs.syzygy-tables.info":
		base := ipfsSmall
		if PieceCount(table) > 6 {
			base = ipfsLarge
		}
		add(wdl, "/ipfs/%s/%s.rtbw", base, table)
		add(dtz, "/ipfs/%s/%s.rtbz", base, table)
	case "stem", "material":
		out = append(out, table)
	case "file", "filename":
		add(wdl, "%s.rtbw", table)
		add(dtz, "%s.rtbz", table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return out, nil
}
