// Package book provides a precomputed opening book: a binary table mapping
// early positions to weighted recommended moves. A missing or corrupt book
// is never fatal; the engine simply searches instead.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/lbrandt/fianchetto/internal/board"
)

// Entry is one recommended continuation for a position. The move is stored
// as bare coordinates and resolved against the position's legal moves at
// probe time, so castling and en passant get the generator's encoding.
type Entry struct {
	From, To uint8
	Promo    board.PieceType
	Weight   uint16
}

// Book is an in-memory opening book keyed by position hash.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// Load reads a Polyglot-format opening book from a file.
func Load(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	b, err := LoadReader(file)
	if err != nil {
		return nil, fmt.Errorf("book: reading %s: %w", filename, err)
	}
	return b, nil
}

// LoadReader reads a Polyglot-format book from a reader.
//
// Entry format, big-endian:
//
//	8 bytes position key, 2 bytes move, 2 bytes weight, 4 bytes learn data
//	(ignored)
func LoadReader(r io.Reader) (*Book, error) {
	bk := New()

	var entry [16]byte
	for {
		if _, err := io.ReadFull(r, entry[:]); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("book: truncated entry: %w", err)
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		moveData := binary.BigEndian.Uint16(entry[8:10])
		weight := binary.BigEndian.Uint16(entry[10:12])

		bk.entries[key] = append(bk.entries[key], decodeMove(moveData, weight))
	}

	return bk, nil
}

// decodeMove unpacks the Polyglot move encoding:
// bits 0-5 to square, 6-11 from square, 12-14 promotion piece.
func decodeMove(data uint16, weight uint16) Entry {
	toFile := data & 7
	toRank := (data >> 3) & 7
	fromFile := (data >> 6) & 7
	fromRank := (data >> 9) & 7
	promo := (data >> 12) & 7

	from := uint8(fromRank*8 + fromFile)
	to := uint8(toRank*8 + toFile)

	// Polyglot encodes castling as king-captures-rook; convert to the
	// king-destination squares the move generator uses.
	const e1, a1, h1, c1, g1 = 4, 0, 7, 2, 6
	const e8, a8, h8, c8, g8 = 60, 56, 63, 58, 62
	switch {
	case from == e1 && to == h1:
		to = g1
	case from == e1 && to == a1:
		to = c1
	case from == e8 && to == h8:
		to = g8
	case from == e8 && to == a8:
		to = c8
	}

	promoType := board.NoPiece
	switch promo {
	case 1:
		promoType = board.Knight
	case 2:
		promoType = board.Bishop
	case 3:
		promoType = board.Rook
	case 4:
		promoType = board.Queen
	}

	return Entry{From: from, To: to, Promo: promoType, Weight: weight}
}

// Probe looks the position up and, if known, picks a recommendation by
// weighted random selection using the supplied randomness source. Entries
// that do not match a legal move are skipped. Safe for concurrent callers
// as long as they do not share rng.
func (b *Book) Probe(pos *board.Position, rng *rand.Rand) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}

	entries, ok := b.entries[pos.BookHash()]
	if !ok || len(entries) == 0 {
		return board.NoMove, false
	}

	legal := make([]board.Move, 0, len(entries))
	weights := make([]uint32, 0, len(entries))
	var total uint32
	for _, e := range entries {
		m, ok := pos.MatchMove(e.From, e.To, e.Promo)
		if !ok {
			continue
		}
		legal = append(legal, m)
		weights = append(weights, uint32(e.Weight))
		total += uint32(e.Weight)
	}
	if len(legal) == 0 {
		return board.NoMove, false
	}

	if total == 0 {
		// All weights zero: uniform choice.
		return legal[rng.Intn(len(legal))], true
	}

	r := rng.Uint32() % total
	var cumulative uint32
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return legal[i], true
		}
	}
	return legal[len(legal)-1], true
}

// Lookup returns all stored continuations for the position, heaviest
// weight first, without legality filtering.
func (b *Book) Lookup(pos *board.Position) []Entry {
	if b == nil {
		return nil
	}
	entries, ok := b.entries[pos.BookHash()]
	if !ok {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
