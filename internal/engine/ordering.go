package engine

import (
	"sort"

	"github.com/lbrandt/fianchetto/internal/board"
)

// orderMoves reorders the move list in place so captures are searched first.
// Non-captures keep their relative order, and no move is dropped or
// duplicated.
func orderMoves(pos *board.Position, moves []board.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return pos.IsCapture(moves[i]) && !pos.IsCapture(moves[j])
	})
}
