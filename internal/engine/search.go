package engine

import "github.com/lbrandt/fianchetto/internal/board"

// Score bounds. MateScore is far outside any sum of material and
// piece-square terms, so mate is never confused with a good position.
const (
	Infinity  = 1_000_000
	MateScore = 100_000
)

// maxQuiescePly caps the capture-only search. Capture sequences shrink the
// board, so in practice the recursion terminates well before the cap.
const maxQuiescePly = 32

// search is a fail-hard negamax with alpha-beta pruning. The returned score
// is relative to the side to move and always lies within [alpha, beta].
// The position is restored to its exact prior state on every path.
func search(pos *board.Position, alpha, beta, depth int) int {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return clamp(-MateScore, alpha, beta)
		}
		return clamp(0, alpha, beta)
	}
	if pos.FiftyMoveDraw() {
		return clamp(0, alpha, beta)
	}

	if depth <= 0 {
		return quiesce(pos, alpha, beta, maxQuiescePly)
	}

	orderMoves(pos, moves)
	for _, m := range moves {
		pos.Apply(m)
		score := -search(pos, -beta, -alpha, depth-1)
		pos.Undo()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// quiesce resolves pending capture sequences at the search horizon. The
// stand-pat score lets the mover decline further captures, so a quiet
// position evaluates statically.
func quiesce(pos *board.Position, alpha, beta, ply int) int {
	standPat := Evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply <= 0 {
		return alpha
	}

	for _, m := range pos.LegalMoves() {
		if !pos.IsCapture(m) {
			continue
		}
		pos.Apply(m)
		score := -quiesce(pos, -beta, -alpha, ply-1)
		pos.Undo()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// clamp keeps fail-hard scores inside the caller's window.
func clamp(score, alpha, beta int) int {
	if score <= alpha {
		return alpha
	}
	if score >= beta {
		return beta
	}
	return score
}

// SelectDepth picks the search depth from the root branching factor and the
// number of pieces left. Wide positions get shallow searches; sparse
// endgames can afford deeper ones. Deterministic, and never below 1.
func SelectDepth(branching, pieces int) int {
	switch {
	case pieces <= 6:
		return 6
	case pieces <= 12:
		return 5
	case branching <= 12:
		return 5
	case branching <= 24:
		return 4
	default:
		return 3
	}
}
