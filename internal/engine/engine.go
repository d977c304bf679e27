package engine

import (
	"errors"
	"math/rand"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lbrandt/fianchetto/internal/board"
	"github.com/lbrandt/fianchetto/internal/book"
)

// ErrNoLegalMoves is returned when NextMove is called on a terminal
// position. The game loop must not ask the engine to move when the game is
// already over; the engine never fabricates a move.
var ErrNoLegalMoves = errors.New("engine: no legal moves in position")

// Options configures an Engine. The zero value is usable: automatic depth,
// one worker per CPU, no opening book, discarded logs, time-seeded
// randomness.
type Options struct {
	// White is the side the engine plays. Informational; the search itself
	// scores whichever side is to move in the position it is given.
	White bool

	// Depth fixes the search depth. Zero selects depth per call from the
	// root branching factor and remaining material.
	Depth int

	// Workers bounds the parallel evaluation of root moves. Zero means
	// GOMAXPROCS.
	Workers int

	// Book is the opening book, or nil to always search.
	Book *book.Book

	// Logger receives search diagnostics.
	Logger zerolog.Logger

	// Rand drives book move selection and tie-breaking between equal best
	// moves. Injected so tests can seed it; nil seeds from the clock.
	Rand *rand.Rand
}

// Engine selects moves by fixed-depth negamax search with an optional
// opening-book shortcut. Configuration is immutable after New; an Engine
// holds no mutable search state between calls, so distinct calls are
// independent.
type Engine struct {
	white   bool
	depth   int
	workers int
	bk      *book.Book
	log     zerolog.Logger
	rng     *rand.Rand
}

// New creates an engine from the given options.
func New(opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		white:   opts.White,
		depth:   opts.Depth,
		workers: workers,
		bk:      opts.Book,
		log:     opts.Logger,
		rng:     rng,
	}
}

// White reports the side the engine was configured to play.
func (e *Engine) White() bool {
	return e.white
}

// candidate is one root move with its search score, relative to the side to
// move at the root.
type candidate struct {
	move  board.Move
	score int
}

// NextMove returns the move the engine plays in the given position. The
// position is left unmodified. The opening book is consulted once; on a
// miss the engine proceeds to full search and does not probe again during
// this call.
//
// Every legal root move is searched to the same depth, each on its own copy
// of the position so workers never share mutable state. Exact score ties
// are broken uniformly at random: a deterministic engine would be trivially
// predictable for its opponent.
func (e *Engine) NextMove(pos *board.Position) (board.Move, error) {
	if e.bk != nil {
		if m, ok := e.bk.Probe(pos, e.rng); ok {
			e.log.Debug().Str("move", board.Notation(m)).Msg("book move")
			return m, nil
		}
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove, ErrNoLegalMoves
	}

	depth := e.depth
	if depth <= 0 {
		depth = SelectDepth(len(moves), pos.PieceCount())
	}

	start := time.Now()
	cands := make([]candidate, len(moves))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			child := pos.Clone()
			child.Apply(m)
			// The child score is relative to the opponent, who now moves.
			score := -search(child, -Infinity, Infinity, depth)
			child.Undo()
			cands[i] = candidate{move: m, score: score}
			return nil
		})
	}
	g.Wait() // barrier; workers never return errors

	best := pickBest(cands, e.rng)
	e.log.Debug().
		Str("move", board.Notation(best)).
		Int("depth", depth).
		Int("candidates", len(cands)).
		Dur("elapsed", time.Since(start)).
		Msg("search complete")
	return best, nil
}

// pickBest collects every candidate tied for the maximum score (exact
// integer equality) and picks one uniformly at random.
func pickBest(cands []candidate, rng *rand.Rand) board.Move {
	max := cands[0].score
	for _, c := range cands[1:] {
		if c.score > max {
			max = c.score
		}
	}

	ties := make([]board.Move, 0, len(cands))
	for _, c := range cands {
		if c.score == max {
			ties = append(ties, c.move)
		}
	}
	return ties[rng.Intn(len(ties))]
}
