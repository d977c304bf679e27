package uci

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lbrandt/fianchetto/internal/engine"
)

func runSession(t *testing.T, commands string) string {
	t.Helper()
	var out strings.Builder
	u := New(engine.Options{Depth: 1}, &out, zerolog.Nop())
	u.Run(strings.NewReader(commands))
	return out.String()
}

func TestHandshake(t *testing.T) {
	out := runSession(t, "uci\nisready\nquit\n")

	for _, want := range []string{"id name Fianchetto", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGoFromStartpos(t *testing.T) {
	out := runSession(t, "position startpos moves e2e4 e7e5\ngo depth 1\nquit\n")

	if !strings.Contains(out, "bestmove ") {
		t.Fatalf("no bestmove in output:\n%s", out)
	}
	if strings.Contains(out, "bestmove 0000") {
		t.Errorf("null move from a playable position:\n%s", out)
	}
}

func TestGoFindsMateInOne(t *testing.T) {
	out := runSession(t, "position fen 6k1/5ppp/8/8/8/8/8/K3R3 w - - 0 1\ngo depth 1\nquit\n")

	if !strings.Contains(out, "bestmove e1e8") {
		t.Errorf("expected bestmove e1e8:\n%s", out)
	}
}

func TestGoFromTerminalPosition(t *testing.T) {
	// White is checkmated; "go" must answer with the null move.
	out := runSession(t, "position fen rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3\ngo depth 1\nquit\n")

	if !strings.Contains(out, "bestmove 0000") {
		t.Errorf("expected bestmove 0000:\n%s", out)
	}
}

func TestUcinewgameResetsPosition(t *testing.T) {
	var out strings.Builder
	u := New(engine.Options{Depth: 1}, &out, zerolog.Nop())
	u.Run(strings.NewReader("position startpos moves e2e4\nucinewgame\nquit\n"))

	if got := u.pos.FEN(); !strings.HasPrefix(got, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w") {
		t.Errorf("position not reset: %s", got)
	}
}

func TestBadPositionKeepsPrevious(t *testing.T) {
	var out strings.Builder
	u := New(engine.Options{Depth: 1}, &out, zerolog.Nop())
	u.Run(strings.NewReader("position startpos moves e2e4\nposition startpos moves e2e5\nquit\n"))

	// The illegal follow-up command must not clobber the good position.
	if got := u.pos.FEN(); !strings.Contains(got, " b ") {
		t.Errorf("position lost after bad command: %s", got)
	}
}

func TestDisplayCommand(t *testing.T) {
	out := runSession(t, "position startpos\nd\nquit\n")

	if !strings.Contains(out, "♜") && !strings.Contains(out, "r") {
		t.Errorf("d printed no board:\n%s", out)
	}
}
