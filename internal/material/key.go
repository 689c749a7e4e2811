// Package material handles canonical endgame signatures ("material
// keys") such as "KRNvKNN": normalization, table-name validation,
// ordering, and the dependency graph between tablebase files.
package material

import "strings"

// pieceOrder is the fixed descending-value piece order used everywhere
// a key is produced or compared.
const pieceOrder = "KQRBNP"

// MaxPieces is the largest supported endgame class size.
const MaxPieces = 7

func pieceIndex(c byte) int {
	return strings.IndexByte(pieceOrder, c)
}

// sortSide returns the side's piece letters sorted by pieceOrder.
// Unknown letters sort last so arbitrary input stays deterministic.
func sortSide(side string) string {
	b := []byte(side)
	for i := 1; i < len(b); i++ {
		for j := i; j > 0; j-- {
			pi, pj := pieceIndex(b[j-1]), pieceIndex(b[j])
			if pi < 0 {
				pi = len(pieceOrder)
			}
			if pj < 0 {
				pj = len(pieceOrder)
			}
			if pi <= pj {
				break
			}
			b[j-1], b[j] = b[j], b[j-1]
		}
	}
	return string(b)
}

// sideRank maps a sorted side to its piece-index sequence for
// lexicographic comparison.
func sideRank(side string) []int {
	rank := make([]int, len(side))
	for i := 0; i < len(side); i++ {
		rank[i] = pieceIndex(side[i])
	}
	return rank
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Normalize returns the canonical form of a material key. Each side is
// sorted by the fixed piece order, and the sides are swapped when the
// canonical ordering rule demands it, so that the same piece multiset
// always yields the same key regardless of which color holds it or
// which side is to move.
func Normalize(name string) string {
	w, b, ok := strings.Cut(name, "v")
	if !ok {
		return sortSide(name)
	}
	w = sortSide(w)
	b = sortSide(b)
	if swapSides(w, b) {
		w, b = b, w
	}
	return w + "v" + b
}

// swapSides reports whether the first side is the weaker one under the
// canonical ordering: compare (len(w), rank(b)) against (len(b),
// rank(w)) lexicographically, tuple-style.
func swapSides(w, b string) bool {
	if len(w) != len(b) {
		return len(w) < len(b)
	}
	return lessIntSlice(sideRank(b), sideRank(w))
}

// IsTableName reports whether name looks like a Syzygy table name: two
// sides of at most MaxPieces pieces total, one king each listed first,
// remaining pieces drawn from QRBNP and sorted by value. When
// normalized is true the name must additionally equal its canonical
// form.
func IsTableName(name string, normalized bool) bool {
	w, b, ok := strings.Cut(name, "v")
	if !ok || !validSide(w) || !validSide(b) {
		return false
	}
	if len(w)+len(b) > MaxPieces {
		return false
	}
	if normalized && Normalize(name) != name {
		return false
	}
	return true
}

func validSide(side string) bool {
	if len(side) == 0 || side[0] != 'K' {
		return false
	}
	prev := 0
	for i := 1; i < len(side); i++ {
		idx := pieceIndex(side[i])
		if idx <= 0 { // not a piece letter, or a second king
			return false
		}
		if idx < prev {
			return false // not sorted by value
		}
		prev = idx
	}
	return true
}

// Less orders endgame classes for listings: shorter endgames first,
// then by the first side's length and piece ranks, then the second
// side's. Higher-valued pieces sort later within equal lengths,
// matching the published endgame index ordering.
func Less(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	aw, ab, _ := strings.Cut(a, "v")
	bw, bb, _ := strings.Cut(b, "v")
	if len(aw) != len(bw) {
		return len(aw) < len(bw)
	}
	if r := compareNegRank(aw, bw); r != 0 {
		return r < 0
	}
	if len(ab) != len(bb) {
		return len(ab) < len(bb)
	}
	return compareNegRank(ab, bb) < 0
}

// compareNegRank compares two sides by their negated piece indexes,
// lexicographically.
func compareNegRank(a, b string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ra, rb := -pieceIndex(a[i]), -pieceIndex(b[i])
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// PieceCount returns the number of pieces an endgame class contains.
func PieceCount(name string) int {
	n := len(name)
	if strings.Contains(name, "v") {
		n--
	}
	return n
}

// PawnCount returns the number of pawns in an endgame class.
func PawnCount(name string) int {
	return strings.Count(name, "P")
}
