package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/lbrandt/fianchetto/internal/board"
	"github.com/lbrandt/fianchetto/internal/book"
)

func testEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	return New(opts)
}

func TestNextMoveNoLegalMoves(t *testing.T) {
	// Fool's mate: White has no legal moves.
	pos := mustPos(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")

	eng := testEngine(t, Options{Depth: 1})
	if _, err := eng.NextMove(pos); !errors.Is(err, ErrNoLegalMoves) {
		t.Fatalf("got err %v, want ErrNoLegalMoves", err)
	}
}

func TestNextMovePlaysMateInOne(t *testing.T) {
	pos := mustPos(t, "6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1")

	eng := testEngine(t, Options{Depth: 1})
	m, err := eng.NextMove(pos)
	if err != nil {
		t.Fatal(err)
	}
	if got := board.Notation(m); got != "e1e8" {
		t.Errorf("engine played %s, want mate with e1e8", got)
	}
}

func TestNextMoveTakesHangingQueen(t *testing.T) {
	// Only Qxd5 wins material; everything else leaves the queens facing
	// off or loses ours.
	pos := mustPos(t, "6k1/8/8/3q4/8/8/8/3Q2K1 w - - 0 1")

	eng := testEngine(t, Options{Depth: 2})
	m, err := eng.NextMove(pos)
	if err != nil {
		t.Fatal(err)
	}
	if got := board.Notation(m); got != "d1d5" {
		t.Errorf("engine played %s, want d1d5", got)
	}
}

func TestNextMoveLeavesPositionUnchanged(t *testing.T) {
	pos := mustPos(t, "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3")
	before := pos.FEN()

	eng := testEngine(t, Options{Depth: 2, Workers: 4})
	if _, err := eng.NextMove(pos); err != nil {
		t.Fatal(err)
	}
	if got := pos.FEN(); got != before {
		t.Errorf("NextMove mutated position:\n got %s\nwant %s", got, before)
	}
}

func TestNextMoveUsesBook(t *testing.T) {
	pos := board.Start()

	// A one-entry book recommending e2e4 from the start.
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, pos.BookHash())
	binary.Write(&buf, binary.BigEndian, encodeBookMove("e2", "e4"))
	binary.Write(&buf, binary.BigEndian, uint16(100))
	binary.Write(&buf, binary.BigEndian, uint32(0))

	bk, err := book.LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	eng := testEngine(t, Options{Depth: 1, Book: bk})
	m, err := eng.NextMove(pos)
	if err != nil {
		t.Fatal(err)
	}
	if got := board.Notation(m); got != "e2e4" {
		t.Errorf("engine played %s, want book move e2e4", got)
	}
}

func TestPickBestTieUniform(t *testing.T) {
	legal := board.Start().LegalMoves()
	a, b, worse := legal[0], legal[1], legal[2]

	cands := []candidate{
		{move: a, score: 40},
		{move: b, score: 40},
		{move: worse, score: 10},
	}

	rng := rand.New(rand.NewSource(42))
	counts := map[board.Move]int{}
	const trials = 2000
	for i := 0; i < trials; i++ {
		counts[pickBest(cands, rng)]++
	}

	if counts[worse] != 0 {
		t.Errorf("sub-maximal move chosen %d times", counts[worse])
	}
	// Uniform over two tied moves: roughly half each.
	for _, m := range []board.Move{a, b} {
		if counts[m] < trials*2/5 || counts[m] > trials*3/5 {
			t.Errorf("tied move %s chosen %d/%d times, expected ~%d",
				board.Notation(m), counts[m], trials, trials/2)
		}
	}
}

// encodeBookMove packs coordinates into the Polyglot move field.
func encodeBookMove(from, to string) uint16 {
	fromFile := uint16(from[0] - 'a')
	fromRank := uint16(from[1] - '1')
	toFile := uint16(to[0] - 'a')
	toRank := uint16(to[1] - '1')
	return toFile | toRank<<3 | fromFile<<6 | fromRank<<9
}
