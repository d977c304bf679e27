package engine

import "testing"

var searchFens = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
	"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
	"8/3k4/3p4/8/8/4N3/4K3/8 w - - 0 1",
}

func TestSearchDepthZeroMatchesQuiesce(t *testing.T) {
	for _, fen := range searchFens {
		pos := mustPos(t, fen)
		s := search(pos, -Infinity, Infinity, 0)
		q := quiesce(pos.Clone(), -Infinity, Infinity, maxQuiescePly)
		if s != q {
			t.Errorf("%s: search depth 0 = %d, quiesce = %d", fen, s, q)
		}
	}
}

func TestSearchBoundsContainment(t *testing.T) {
	windows := [][2]int{
		{-Infinity, Infinity},
		{-50, 50},
		{0, 1},
		{-10000, -9000},
		{200, 10000},
	}
	for _, fen := range searchFens {
		pos := mustPos(t, fen)
		for _, w := range windows {
			for depth := 1; depth <= 2; depth++ {
				got := search(pos, w[0], w[1], depth)
				if got < w[0] || got > w[1] {
					t.Errorf("%s: search(%d, %d, depth=%d) = %d escapes bounds",
						fen, w[0], w[1], depth, got)
				}
			}
		}
	}
}

func TestSearchLeavesPositionUnchanged(t *testing.T) {
	for _, fen := range searchFens {
		pos := mustPos(t, fen)
		before := pos.FEN()
		search(pos, -Infinity, Infinity, 2)
		if got := pos.FEN(); got != before {
			t.Errorf("search mutated position:\n got %s\nwant %s", got, before)
		}
	}
}

func TestSearchCheckmatedScore(t *testing.T) {
	// White has been fool's mated.
	pos := mustPos(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if got := search(pos, -Infinity, Infinity, 3); got != -MateScore {
		t.Errorf("checkmated side scores %d, want %d", got, -MateScore)
	}
}

func TestSearchStalemateScore(t *testing.T) {
	pos := mustPos(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := search(pos, -Infinity, Infinity, 3); got != 0 {
		t.Errorf("stalemate scores %d, want 0", got)
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Re8 is mate; every alternative lets Black play on.
	pos := mustPos(t, "6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1")

	var best int = -Infinity
	var bestMove string
	for _, m := range pos.LegalMoves() {
		pos.Apply(m)
		score := -search(pos, -Infinity, Infinity, 1)
		pos.Undo()
		if score > best {
			best, bestMove = score, m.String()
		}
	}

	if bestMove != "e1e8" {
		t.Errorf("best move %s (score %d), want e1e8", bestMove, best)
	}
	if best != MateScore {
		t.Errorf("mating line scores %d, want %d", best, MateScore)
	}
}

func TestSelectDepth(t *testing.T) {
	// Never below 1, deterministic, and no deeper in wide positions than
	// in narrow ones.
	for branching := 1; branching <= 60; branching++ {
		for pieces := 2; pieces <= 32; pieces++ {
			d := SelectDepth(branching, pieces)
			if d < 1 {
				t.Fatalf("SelectDepth(%d, %d) = %d, below 1", branching, pieces, d)
			}
			if d != SelectDepth(branching, pieces) {
				t.Fatalf("SelectDepth(%d, %d) not deterministic", branching, pieces)
			}
			if branching > 1 && SelectDepth(branching-1, pieces) < d {
				t.Fatalf("depth grows with branching at (%d, %d)", branching, pieces)
			}
		}
	}

	if endgame, middlegame := SelectDepth(10, 5), SelectDepth(40, 32); endgame <= middlegame {
		t.Errorf("endgame depth %d should exceed middlegame depth %d", endgame, middlegame)
	}
}
