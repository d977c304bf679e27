package book

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"strings"
	"testing"

	"github.com/lbrandt/fianchetto/internal/board"
)

// moveData packs coordinate strings into the Polyglot move field.
func moveData(from, to string) uint16 {
	fromFile := uint16(from[0] - 'a')
	fromRank := uint16(from[1] - '1')
	toFile := uint16(to[0] - 'a')
	toRank := uint16(to[1] - '1')
	return toFile | toRank<<3 | fromFile<<6 | fromRank<<9
}

func writeEntry(buf *bytes.Buffer, key uint64, data, weight uint16) {
	binary.Write(buf, binary.BigEndian, key)
	binary.Write(buf, binary.BigEndian, data)
	binary.Write(buf, binary.BigEndian, weight)
	binary.Write(buf, binary.BigEndian, uint32(0))
}

func TestLoadReaderAndProbe(t *testing.T) {
	pos := board.Start()

	var buf bytes.Buffer
	writeEntry(&buf, pos.BookHash(), moveData("e2", "e4"), 100)

	bk, err := LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if bk.Size() != 1 {
		t.Fatalf("book has %d positions, want 1", bk.Size())
	}

	m, ok := bk.Probe(pos, rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatal("probe missed the starting position")
	}
	if got := board.Notation(m); got != "e2e4" {
		t.Errorf("probe returned %s, want e2e4", got)
	}
}

func TestProbeUnknownPosition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, ok := New().Probe(board.Start(), rng); ok {
		t.Error("empty book reported a hit")
	}

	var nilBook *Book
	if _, ok := nilBook.Probe(board.Start(), rng); ok {
		t.Error("nil book reported a hit")
	}
}

func TestProbeSkipsIllegalEntries(t *testing.T) {
	pos := board.Start()

	// e2e5 is not a legal move from the start; the entry must be skipped.
	var buf bytes.Buffer
	writeEntry(&buf, pos.BookHash(), moveData("e2", "e5"), 100)

	bk, err := LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bk.Probe(pos, rand.New(rand.NewSource(1))); ok {
		t.Error("probe returned an illegal move")
	}
}

func TestProbeWeightedSelection(t *testing.T) {
	pos := board.Start()

	// A zero-weight entry must never win against a weighted one.
	var buf bytes.Buffer
	writeEntry(&buf, pos.BookHash(), moveData("e2", "e4"), 0)
	writeEntry(&buf, pos.BookHash(), moveData("d2", "d4"), 10)

	bk, err := LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		m, ok := bk.Probe(pos, rng)
		if !ok {
			t.Fatal("probe missed")
		}
		if got := board.Notation(m); got != "d2d4" {
			t.Fatalf("zero-weight move %s selected", got)
		}
	}
}

func TestProbeAllWeightsZero(t *testing.T) {
	pos := board.Start()

	var buf bytes.Buffer
	writeEntry(&buf, pos.BookHash(), moveData("e2", "e4"), 0)
	writeEntry(&buf, pos.BookHash(), moveData("d2", "d4"), 0)

	bk, err := LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(3))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		m, ok := bk.Probe(pos, rng)
		if !ok {
			t.Fatal("probe missed")
		}
		seen[board.Notation(m)] = true
	}
	if !seen["e2e4"] || !seen["d2d4"] {
		t.Errorf("uniform fallback only chose %v", seen)
	}
}

func TestDecodeCastling(t *testing.T) {
	pos, err := board.FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	// Polyglot writes castling as king takes rook: e1h1 means e1g1.
	var buf bytes.Buffer
	writeEntry(&buf, pos.BookHash(), moveData("e1", "h1"), 50)

	bk, err := LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	m, ok := bk.Probe(pos, rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatal("probe missed castling entry")
	}
	if got := board.Notation(m); got != "e1g1" {
		t.Errorf("castling decoded as %s, want e1g1", got)
	}
}

func TestDecodePromotion(t *testing.T) {
	pos, err := board.FromFEN("8/P1k5/K7/8/8/8/6p1/8 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	// Promotion code 4 is a queen.
	var buf bytes.Buffer
	writeEntry(&buf, pos.BookHash(), moveData("a7", "a8")|4<<12, 50)

	bk, err := LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	m, ok := bk.Probe(pos, rand.New(rand.NewSource(1)))
	if !ok {
		t.Fatal("probe missed promotion entry")
	}
	if got := board.Notation(m); got != "a7a8q" {
		t.Errorf("promotion decoded as %s, want a7a8q", got)
	}
}

func TestLoadReaderTruncated(t *testing.T) {
	data := make([]byte, 16+7) // one full entry plus a partial one
	if _, err := LoadReader(bytes.NewReader(data)); err == nil {
		t.Error("truncated book loaded without error")
	} else if !strings.Contains(err.Error(), "truncated") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLookupSortedByWeight(t *testing.T) {
	pos := board.Start()

	var buf bytes.Buffer
	writeEntry(&buf, pos.BookHash(), moveData("e2", "e4"), 30)
	writeEntry(&buf, pos.BookHash(), moveData("d2", "d4"), 90)
	writeEntry(&buf, pos.BookHash(), moveData("c2", "c4"), 60)

	bk, err := LoadReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	entries := bk.Lookup(pos)
	if len(entries) != 3 {
		t.Fatalf("lookup returned %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Weight > entries[i-1].Weight {
			t.Fatalf("entries not sorted by weight: %v", entries)
		}
	}
}

func TestHashChangesWithPosition(t *testing.T) {
	pos := board.Start()
	start := pos.BookHash()

	m, err := pos.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	pos.Apply(m)
	if pos.BookHash() == start {
		t.Error("hash unchanged after a move")
	}
	pos.Undo()
	if pos.BookHash() != start {
		t.Error("hash not restored after undo")
	}
}
