package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/egtb/tbinfo/internal/material"
)

// ErrNotFound reports a material key with no statistics record under
// either orientation.
var ErrNotFound = errors.New("stats: endgame not found")

// Store holds the statistics records for every published endgame class,
// keyed by canonical material key. It is immutable after Load and safe
// for concurrent readers.
type Store struct {
	records map[string]Record
	order   []string

	// maxPly per piece count, for flagging maximal endgames.
	maxPly map[int]int
}

// NewStore builds a store from already decoded records.
func NewStore(records map[string]Record) *Store {
	s := &Store{
		records: records,
		order:   make([]string, 0, len(records)),
		maxPly:  make(map[int]int),
	}
	for name, rec := range records {
		s.order = append(s.order, name)
		pc := material.PieceCount(name)
		if ply := longestPly(rec); ply > s.maxPly[pc] {
			s.maxPly[pc] = ply
		}
	}
	sort.Slice(s.order, func(i, j int) bool { return material.Less(s.order[i], s.order[j]) })
	return s
}

// Load reads a stats.json file, transparently decompressing it when the
// path ends in .zst.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stats: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("stats: zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var records map[string]Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("stats: decode %s: %w", path, err)
	}
	return NewStore(records), nil
}

// Len reports the number of endgame classes in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// Materials lists every endgame class, smallest first.
func (s *Store) Materials() []string {
	return s.order
}

// Get looks up the record for a material key. The key may be given in
// either orientation; flipped reports that the record is stored from
// the opposite color's perspective.
func (s *Store) Get(name string) (rec Record, flipped bool, err error) {
	if rec, ok := s.records[name]; ok {
		return rec, false, nil
	}
	if rec, ok := s.records[material.Normalize(name)]; ok {
		return rec, true, nil
	}
	return Record{}, false, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// LongestFEN returns the FEN of the longest recorded position for an
// endgame class, or the empty string when the class is unknown.
func (s *Store) LongestFEN(name string) string {
	rec, _, err := s.Get(name)
	if err != nil {
		return ""
	}
	best := -1
	epd := ""
	for _, l := range rec.Longest {
		if l.Ply > best {
			best = l.Ply
			epd = l.EPD
		}
	}
	if epd == "" {
		return ""
	}
	return epd + " 0 1"
}

// IsMaximal reports whether the endgame class holds the longest
// recorded position among all classes with the same piece count.
func (s *Store) IsMaximal(name string) bool {
	rec, _, err := s.Get(name)
	if err != nil {
		return false
	}
	ply := longestPly(rec)
	return ply > 0 && ply == s.maxPly[material.PieceCount(material.Normalize(name))]
}

func longestPly(rec Record) int {
	best := 0
	for _, l := range rec.Longest {
		if l.Ply > best {
			best = l.Ply
		}
	}
	return best
}
