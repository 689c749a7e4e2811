// Package rules adapts a chess rules engine to the position snapshots
// the classifier works from: FEN parsing, legality checks, terminal
// detection, and legal move enumeration.
package rules

import (
	"fmt"
	"strings"

	chesslib "github.com/corentings/chess/v2"

	"github.com/egtb/tbinfo/internal/tb"
)

// Position wraps a parsed game state.
type Position struct {
	game *chesslib.Game
}

// FromFEN parses a FEN string. Underscores are accepted in place of
// spaces so FENs can travel in URL query strings.
func FromFEN(fen string) (*Position, error) {
	fen = strings.ReplaceAll(strings.TrimSpace(fen), "_", " ")
	opt, err := chesslib.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("rules: parse fen %q: %w", fen, err)
	}
	return &Position{game: chesslib.NewGame(opt)}, nil
}

// FEN returns the position's FEN.
func (p *Position) FEN() string {
	return p.game.FEN()
}

// WhiteToMove reports the side to move.
func (p *Position) WhiteToMove() bool {
	return p.game.Position().Turn() == chesslib.White
}

// PieceCount returns the number of pieces on the board.
func (p *Position) PieceCount() int {
	return len(p.game.Position().Board().SquareMap())
}

// MaterialKey returns the position's material signature with white's
// pieces first, e.g. "KQvKR". The key is not normalized.
func (p *Position) MaterialKey() string {
	var counts [2][6]int
	for _, piece := range p.game.Position().Board().SquareMap() {
		c := 0
		if piece.Color() == chesslib.Black {
			c = 1
		}
		if i := pieceTypeIndex(piece.Type()); i >= 0 {
			counts[c][i]++
		}
	}

	var sb strings.Builder
	for c := 0; c < 2; c++ {
		if c == 1 {
			sb.WriteByte('v')
		}
		for i, letter := range "KQRBNP" {
			for n := 0; n < counts[c][i]; n++ {
				sb.WriteRune(letter)
			}
		}
	}
	return sb.String()
}

func pieceTypeIndex(t chesslib.PieceType) int {
	switch t {
	case chesslib.King:
		return 0
	case chesslib.Queen:
		return 1
	case chesslib.Rook:
		return 2
	case chesslib.Bishop:
		return 3
	case chesslib.Knight:
		return 4
	case chesslib.Pawn:
		return 5
	}
	return -1
}

// CheckSquare returns the square of the side to move's king when it
// stands in check, or the empty string.
func (p *Position) CheckSquare() string {
	pos := p.game.Position()
	board := pos.Board()
	opp := chesslib.Black
	if pos.Turn() == chesslib.Black {
		opp = chesslib.White
	}
	for sq, piece := range board.SquareMap() {
		if piece.Type() == chesslib.King && piece.Color() == pos.Turn() {
			if attacked(board, sq, opp) {
				return sq.String()
			}
			return ""
		}
	}
	return ""
}

// Snapshot produces the classifier's view of the position: legality,
// terminal status, and the legal moves in the engine's enumeration
// order, each with the FEN after the move.
func (p *Position) Snapshot() tb.Snapshot {
	snap := tb.Snapshot{WhiteToMove: p.WhiteToMove()}

	if !p.structurallyLegal() {
		return snap
	}
	snap.Legal = true

	pos := p.game.Position()
	if insufficientMaterial(pos.Board()) {
		// A dead position is a draw before anything else.
		snap.Terminal = tb.TerminalInsufficientMaterial
	} else {
		switch pos.Status() {
		case chesslib.Checkmate:
			snap.Terminal = tb.TerminalCheckmate
		case chesslib.Stalemate:
			snap.Terminal = tb.TerminalStalemate
		}
	}

	moves := pos.ValidMoves()
	snap.Moves = make([]tb.MoveInfo, 0, len(moves))
	uciNotation := chesslib.UCINotation{}
	sanNotation := chesslib.AlgebraicNotation{}
	for i := range moves {
		mv := &moves[i]
		capture := mv.HasTag(chesslib.Capture) || mv.HasTag(chesslib.EnPassant)
		pawnMove := pos.Board().Piece(mv.S1()).Type() == chesslib.Pawn

		info := tb.MoveInfo{
			UCI:     uciNotation.Encode(pos, mv),
			SAN:     sanNotation.Encode(pos, mv),
			Capture: capture,
			Zeroing: capture || pawnMove,
		}
		if after := pos.Update(mv); after != nil {
			info.FEN = after.String()
		}
		snap.Moves = append(snap.Moves, info)
	}
	return snap
}

// structurallyLegal checks what the FEN parser does not: exactly one
// king per side, no pawns on the back ranks, and the side not to move
// not standing in check.
func (p *Position) structurallyLegal() bool {
	pos := p.game.Position()
	board := pos.Board()

	var kings [2]int
	var kingSquares [2]chesslib.Square
	for sq, piece := range board.SquareMap() {
		c := 0
		if piece.Color() == chesslib.Black {
			c = 1
		}
		switch piece.Type() {
		case chesslib.King:
			kings[c]++
			kingSquares[c] = sq
		case chesslib.Pawn:
			if sq.Rank() == chesslib.Rank1 || sq.Rank() == chesslib.Rank8 {
				return false
			}
		}
	}
	if kings[0] != 1 || kings[1] != 1 {
		return false
	}

	// The mover could capture the opposing king.
	idle := 0
	if pos.Turn() == chesslib.White {
		idle = 1
	}
	return !attacked(board, kingSquares[idle], pos.Turn())
}
