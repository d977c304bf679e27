// Package board adapts the dragontoothmg move generator to the narrow rules
// contract the search core needs: legal move enumeration, reversible
// apply/undo, terminal detection, capture classification and notation.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Move is one legal transition from a Position, as encoded by the move
// generator. Moves are immutable and comparable.
type Move = dragon.Move

// NoMove is the zero Move, used where no move is available.
const NoMove = Move(0)

// PieceType identifies a kind of piece, independent of color.
type PieceType int

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// NoPiece is returned for empty squares and non-promotions.
const NoPiece PieceType = -1

// Position holds the full game state. All mutation goes through Apply/Undo,
// which are balanced and perfectly symmetric: after Undo the position is
// bit-for-bit identical to its state before the matching Apply.
type Position struct {
	brd  dragon.Board
	undo []func()
}

// Start returns the standard chess starting position.
func Start() *Position {
	return &Position{brd: dragon.ParseFen(dragon.Startpos)}
}

// FromFEN parses a position from Forsyth-Edwards notation. The placement
// field is validated up front: the underlying parser assumes well-formed
// input and would fault on ranks that do not add up to eight squares.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("board: malformed FEN %q", fen)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("board: malformed FEN %q", fen)
	}
	for _, rank := range ranks {
		squares := 0
		for _, r := range rank {
			switch {
			case r >= '1' && r <= '8':
				squares += int(r - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", r):
				squares++
			default:
				return nil, fmt.Errorf("board: malformed FEN %q", fen)
			}
		}
		if squares != 8 {
			return nil, fmt.Errorf("board: malformed FEN %q", fen)
		}
	}
	return &Position{brd: dragon.ParseFen(fen)}, nil
}

// FEN renders the position in Forsyth-Edwards notation.
func (p *Position) FEN() string {
	return p.brd.ToFen()
}

// WhiteToMove reports whether it is White's turn.
func (p *Position) WhiteToMove() bool {
	return p.brd.Wtomove
}

// LegalMoves enumerates every legal move in the position. Each call
// recomputes from scratch; the returned slice is owned by the caller.
func (p *Position) LegalMoves() []Move {
	return p.brd.GenerateLegalMoves()
}

// Apply plays a legal move on the position. Every Apply must be paired with
// exactly one Undo.
func (p *Position) Apply(m Move) {
	p.undo = append(p.undo, p.brd.Apply(m))
}

// Undo reverts the most recent Apply. Calling Undo with no pending Apply is
// a defect in the caller and panics.
func (p *Position) Undo() {
	n := len(p.undo)
	if n == 0 {
		panic("board: Undo without matching Apply")
	}
	p.undo[n-1]()
	p.undo = p.undo[:n-1]
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.brd.OurKingInCheck()
}

// IsTerminal reports whether the game has ended in this position, and if so
// whether the side to move has been checkmated. An ended position that is
// not checkmate is a draw (stalemate or the fifty-move rule).
func (p *Position) IsTerminal() (ended, checkmate bool) {
	if len(p.brd.GenerateLegalMoves()) == 0 {
		return true, p.brd.OurKingInCheck()
	}
	if p.brd.Halfmoveclock >= 100 {
		return true, false
	}
	return false, false
}

// FiftyMoveDraw reports whether the fifty-move rule ends the game here.
func (p *Position) FiftyMoveDraw() bool {
	return p.brd.Halfmoveclock >= 100
}

// IsCapture reports whether the move takes an enemy piece, including en
// passant captures.
func (p *Position) IsCapture(m Move) bool {
	toBB := uint64(1) << m.To()
	if p.brd.Wtomove {
		if p.brd.Black.All&toBB != 0 {
			return true
		}
		// En passant: a pawn changing file onto an empty square.
		fromBB := uint64(1) << m.From()
		return p.brd.White.Pawns&fromBB != 0 && m.From()%8 != m.To()%8
	}
	if p.brd.White.All&toBB != 0 {
		return true
	}
	fromBB := uint64(1) << m.From()
	return p.brd.Black.Pawns&fromBB != 0 && m.From()%8 != m.To()%8
}

// PieceBB returns the bitboard of the given piece type for one side.
// Bit n corresponds to square n, a1=0 through h8=63.
func (p *Position) PieceBB(white bool, pt PieceType) uint64 {
	bbs := &p.brd.Black
	if white {
		bbs = &p.brd.White
	}
	switch pt {
	case Pawn:
		return bbs.Pawns
	case Knight:
		return bbs.Knights
	case Bishop:
		return bbs.Bishops
	case Rook:
		return bbs.Rooks
	case Queen:
		return bbs.Queens
	case King:
		return bbs.Kings
	}
	return 0
}

// PieceCount returns the total number of pieces on the board, kings included.
func (p *Position) PieceCount() int {
	return bits.OnesCount64(p.brd.White.All | p.brd.Black.All)
}

// Clone returns an independent copy of the position with an empty undo
// stack. Parallel workers must each operate on their own clone.
func (p *Position) Clone() *Position {
	return &Position{brd: p.brd}
}

// ErrIllegalMove is returned when a notated move is not legal in the
// position it was parsed against.
var ErrIllegalMove = errors.New("board: move is not legal in this position")

// ParseMove parses coordinate notation ("e2e4", "e7e8q") and resolves it
// against the legal moves of the position, so the returned Move carries the
// generator's exact encoding for castling and en passant.
func (p *Position) ParseMove(s string) (Move, error) {
	parsed, err := dragon.ParseMove(strings.TrimSpace(s))
	if err != nil {
		return NoMove, fmt.Errorf("board: bad move notation %q: %w", s, err)
	}
	if m, ok := p.MatchMove(parsed.From(), parsed.To(), promoType(&parsed)); ok {
		return m, nil
	}
	return NoMove, ErrIllegalMove
}

// MatchMove finds the legal move with the given from/to squares and
// promotion piece (NoPiece for none), if one exists.
func (p *Position) MatchMove(from, to uint8, promo PieceType) (Move, bool) {
	for _, m := range p.brd.GenerateLegalMoves() {
		if m.From() == from && m.To() == to && promoType(&m) == promo {
			return m, true
		}
	}
	return NoMove, false
}

// Notation renders a move in coordinate notation.
func Notation(m Move) string {
	return m.String()
}

func promoType(m *Move) PieceType {
	switch m.Promote() {
	case dragon.Knight:
		return Knight
	case dragon.Bishop:
		return Bishop
	case dragon.Rook:
		return Rook
	case dragon.Queen:
		return Queen
	}
	return NoPiece
}
