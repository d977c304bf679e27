// Package uci adapts the engine to the Universal Chess Interface, enough
// for fixed-depth play under a standard chess GUI. There is no time
// management: "go depth N" and bare "go" are the supported searches.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lbrandt/fianchetto/internal/board"
	"github.com/lbrandt/fianchetto/internal/engine"
)

// UCI is the protocol handler.
type UCI struct {
	opts engine.Options // template; depth may be overridden per "go"
	pos  *board.Position
	out  io.Writer
	log  zerolog.Logger
}

// New creates a UCI handler writing responses to out.
func New(opts engine.Options, out io.Writer, log zerolog.Logger) *UCI {
	return &UCI{
		opts: opts,
		pos:  board.Start(),
		out:  out,
		log:  log,
	}
}

// Run reads commands from in until "quit" or EOF.
func (u *UCI) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			fmt.Fprintln(u.out, "id name Fianchetto")
			fmt.Fprintln(u.out, "id author lbrandt")
			fmt.Fprintln(u.out, "uciok")
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.pos = board.Start()
		case "position":
			if err := u.handlePosition(args); err != nil {
				u.log.Warn().Err(err).Msg("bad position command")
			}
		case "go":
			u.handleGo(args)
		case "d":
			fmt.Fprintln(u.out, u.pos)
		case "quit":
			return
		}
	}
}

// handlePosition parses "position startpos|fen <fen> [moves ...]".
func (u *UCI) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uci: empty position command")
	}

	var (
		pos       *board.Position
		err       error
		moveStart int
	)
	switch args[0] {
	case "startpos":
		pos = board.Start()
		moveStart = 1
	case "fen":
		fenEnd := len(args)
		for i, arg := range args {
			if arg == "moves" {
				fenEnd = i
				break
			}
		}
		pos, err = board.FromFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			return err
		}
		moveStart = fenEnd
	default:
		return fmt.Errorf("uci: unknown position kind %q", args[0])
	}

	if moveStart < len(args) && args[moveStart] == "moves" {
		for _, notation := range args[moveStart+1:] {
			m, err := pos.ParseMove(notation)
			if err != nil {
				return fmt.Errorf("uci: move %q: %w", notation, err)
			}
			pos.Apply(m)
		}
	}

	u.pos = pos
	return nil
}

// handleGo runs a search and prints the best move.
func (u *UCI) handleGo(args []string) {
	opts := u.opts
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "depth" {
			if d, err := strconv.Atoi(args[i+1]); err == nil && d > 0 {
				opts.Depth = d
			}
		}
	}
	opts.White = u.pos.WhiteToMove()

	m, err := engine.New(opts).NextMove(u.pos)
	if err != nil {
		// Terminal position: a GUI should not have sent "go" here.
		fmt.Fprintf(u.out, "info string %v\n", err)
		fmt.Fprintln(u.out, "bestmove 0000")
		return
	}
	fmt.Fprintf(u.out, "bestmove %s\n", board.Notation(m))
}
