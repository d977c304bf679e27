package board

import "strings"

const (
	whiteKing   = "♔"
	whiteQueen  = "♕"
	whiteRook   = "♖"
	whiteBishop = "♗"
	whiteKnight = "♘"
	whitePawn   = "♙"
	blackKing   = "♚"
	blackQueen  = "♛"
	blackRook   = "♜"
	blackBishop = "♝"
	blackKnight = "♞"
	blackPawn   = "♟"
)

var pieceSymbols = [2][6]string{
	{whitePawn, whiteKnight, whiteBishop, whiteRook, whiteQueen, whiteKing},
	{blackPawn, blackKnight, blackBishop, blackRook, blackQueen, blackKing},
}

// String renders the board with unicode piece symbols, rank 8 at the top.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sq := uint8(rank*8 + file)
			sym := "."
			if pt, white, ok := p.pieceAt(sq); ok {
				if white {
					sym = pieceSymbols[0][pt]
				} else {
					sym = pieceSymbols[1][pt]
				}
			}
			sb.WriteString(sym)
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

func (p *Position) pieceAt(sq uint8) (pt PieceType, white, ok bool) {
	bb := uint64(1) << sq
	for _, side := range []bool{true, false} {
		for t := Pawn; t <= King; t++ {
			if p.PieceBB(side, t)&bb != 0 {
				return t, side, true
			}
		}
	}
	return NoPiece, false, false
}
