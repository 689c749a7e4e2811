package rules

import chesslib "github.com/corentings/chess/v2"

var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	rookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// attacked reports whether any piece of the given color attacks the
// target square.
func attacked(board *chesslib.Board, target chesslib.Square, by chesslib.Color) bool {
	tf, tr := int(target.File()), int(target.Rank())

	for sq, piece := range board.SquareMap() {
		if piece.Color() != by || sq == target {
			continue
		}
		f, r := int(sq.File()), int(sq.Rank())
		df, dr := tf-f, tr-r

		switch piece.Type() {
		case chesslib.Pawn:
			dir := 1
			if by == chesslib.Black {
				dir = -1
			}
			if dr == dir && abs(df) == 1 {
				return true
			}
		case chesslib.Knight:
			for _, o := range knightOffsets {
				if df == o[0] && dr == o[1] {
					return true
				}
			}
		case chesslib.King:
			if abs(df) <= 1 && abs(dr) <= 1 {
				return true
			}
		case chesslib.Rook:
			if (df == 0 || dr == 0) && clearRay(board, f, r, tf, tr) {
				return true
			}
		case chesslib.Bishop:
			if abs(df) == abs(dr) && clearRay(board, f, r, tf, tr) {
				return true
			}
		case chesslib.Queen:
			if (df == 0 || dr == 0 || abs(df) == abs(dr)) && clearRay(board, f, r, tf, tr) {
				return true
			}
		}
	}
	return false
}

// clearRay reports whether the squares strictly between the two
// coordinates are empty. The coordinates must share a rank, file, or
// diagonal.
func clearRay(board *chesslib.Board, f, r, tf, tr int) bool {
	df, dr := sign(tf-f), sign(tr-r)
	for f, r = f+df, r+dr; f != tf || r != tr; f, r = f+df, r+dr {
		if board.Piece(chesslib.NewSquare(chesslib.File(f), chesslib.Rank(r))) != chesslib.NoPiece {
			return false
		}
	}
	return true
}

// insufficientMaterial reports whether neither side can possibly
// deliver checkmate: bare kings, a lone minor piece, or same-colored
// bishops only.
func insufficientMaterial(board *chesslib.Board) bool {
	squares := board.SquareMap()

	var pawnsRooksQueens [2]bool
	var knights, bishops, pieces [2]int
	var queens [2]int
	lightBishop, darkBishop := false, false

	for sq, piece := range squares {
		c := 0
		if piece.Color() == chesslib.Black {
			c = 1
		}
		pieces[c]++
		switch piece.Type() {
		case chesslib.Pawn, chesslib.Rook:
			pawnsRooksQueens[c] = true
		case chesslib.Queen:
			pawnsRooksQueens[c] = true
			queens[c]++
		case chesslib.Knight:
			knights[c]++
		case chesslib.Bishop:
			bishops[c]++
			if (int(sq.File())+int(sq.Rank()))%2 == 0 {
				darkBishop = true
			} else {
				lightBishop = true
			}
		}
	}

	for c := 0; c < 2; c++ {
		if pawnsRooksQueens[c] {
			return false
		}
		o := 1 - c
		if knights[c] > 0 {
			// A lone knight can only mate against a trapped king;
			// anything beyond king and queens on the other side keeps
			// mating chances alive.
			opponentHasBlockers := pieces[o]-1-queens[o] > 0
			if pieces[c] > 2 || opponentHasBlockers {
				return false
			}
			continue
		}
		if bishops[c] > 0 {
			sameColor := !lightBishop || !darkBishop
			anyPawnsOrKnights := knights[0]+knights[1] > 0
			if !sameColor || anyPawnsOrKnights {
				return false
			}
		}
	}
	return true
}
