// Package cli implements the interactive console game: side selection, turn
// alternation, move input and board display. Notation parsing and user
// errors live here, outside the search core.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lbrandt/fianchetto/internal/board"
	"github.com/lbrandt/fianchetto/internal/engine"
	"github.com/lbrandt/fianchetto/internal/storage"
)

// Console runs games between the player and the engine on a terminal.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	opts  engine.Options // template; White is set per game
	store *storage.Storage
	log   zerolog.Logger
}

// New creates a console game runner. store may be nil to skip persistence.
func New(in io.Reader, out io.Writer, opts engine.Options, store *storage.Storage, log zerolog.Logger) *Console {
	return &Console{
		in:    bufio.NewScanner(in),
		out:   out,
		opts:  opts,
		store: store,
		log:   log,
	}
}

// Run plays one full game and records the result. Returns on game end or
// when input is exhausted.
func (c *Console) Run() error {
	playerWhite, ok := c.chooseSide()
	if !ok {
		return io.EOF
	}

	opts := c.opts
	opts.White = !playerWhite
	eng := engine.New(opts)

	pos := board.Start()
	var moves []string
	start := time.Now()

	for {
		if ended, checkmate := pos.IsTerminal(); ended {
			result := c.announceResult(pos, checkmate)
			c.recordGame(playerWhite, result, moves, time.Since(start))
			return nil
		}

		var (
			m   board.Move
			err error
		)
		if pos.WhiteToMove() == eng.White() {
			m, err = eng.NextMove(pos)
			if err != nil {
				// Terminal positions are caught above; this is a defect.
				return fmt.Errorf("cli: engine failed to move: %w", err)
			}
			pos.Apply(m)
			fmt.Fprintf(c.out, "\n%s\n\n", pos)
			fmt.Fprintf(c.out, "%s plays: %s\n\n", colorName(eng.White()), board.Notation(m))
		} else {
			m, ok = c.promptMove(pos, playerWhite)
			if !ok {
				return io.EOF
			}
			pos.Apply(m)
		}
		moves = append(moves, board.Notation(m))
	}
}

// chooseSide asks until the player picks a color.
func (c *Console) chooseSide() (playerWhite, ok bool) {
	for {
		fmt.Fprint(c.out, "Play as white or black (w/b): ")
		if !c.in.Scan() {
			return false, false
		}
		switch strings.ToLower(strings.TrimSpace(c.in.Text())) {
		case "w":
			return true, true
		case "b":
			return false, true
		}
	}
}

// promptMove reads moves until one is legal in the position.
func (c *Console) promptMove(pos *board.Position, playerWhite bool) (board.Move, bool) {
	for {
		fmt.Fprintf(c.out, "%s plays: ", colorName(playerWhite))
		if !c.in.Scan() {
			return board.NoMove, false
		}
		input := strings.TrimSpace(c.in.Text())
		if input == "" {
			continue
		}

		m, err := pos.ParseMove(input)
		if err != nil {
			fmt.Fprintf(c.out, "Not a legal move in this position: %s\n", input)
			continue
		}
		return m, true
	}
}

// announceResult prints the outcome and returns the PGN-style result tag.
func (c *Console) announceResult(pos *board.Position, checkmate bool) string {
	fmt.Fprintf(c.out, "\n%s\n\n", pos)
	if !checkmate {
		fmt.Fprintln(c.out, "Draw.")
		return "1/2-1/2"
	}
	// The side to move has been mated.
	if pos.WhiteToMove() {
		fmt.Fprintln(c.out, "Checkmate. Black wins.")
		return "0-1"
	}
	fmt.Fprintln(c.out, "Checkmate. White wins.")
	return "1-0"
}

func (c *Console) recordGame(playerWhite bool, result string, moves []string, elapsed time.Duration) {
	if c.store == nil {
		return
	}
	rec := &storage.GameRecord{
		PlayedAt:    time.Now(),
		PlayerWhite: playerWhite,
		Result:      result,
		Moves:       moves,
		Duration:    elapsed,
	}
	if err := c.store.RecordGame(rec); err != nil {
		c.log.Warn().Err(err).Msg("failed to record game")
	}
}

func colorName(white bool) string {
	if white {
		return "White"
	}
	return "Black"
}
