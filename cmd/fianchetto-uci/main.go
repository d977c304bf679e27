// Command fianchetto-uci exposes the engine over the Universal Chess
// Interface so it can be driven by standard chess GUIs.
package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/lbrandt/fianchetto/internal/book"
	"github.com/lbrandt/fianchetto/internal/config"
	"github.com/lbrandt/fianchetto/internal/engine"
	"github.com/lbrandt/fianchetto/internal/storage"
	"github.com/lbrandt/fianchetto/internal/uci"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal := zerolog.New(os.Stderr)
		fatal.Fatal().Err(err).Msg("bad configuration")
	}

	// UCI owns stdout; logs go to stderr only.
	lvl, lvlErr := zerolog.ParseLevel(cfg.LogLevel)
	if lvlErr != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()

	opts := engine.Options{
		Depth:   cfg.Depth,
		Workers: cfg.Workers,
		Logger:  log,
		Book:    openBook(cfg, log),
	}

	uci.New(opts, os.Stdout, log).Run(os.Stdin)
}

func openBook(cfg *config.Config, log zerolog.Logger) *book.Book {
	path := cfg.BookPath
	if path == "" {
		var err error
		if path, err = storage.DefaultBookPath(); err != nil {
			return nil
		}
	}
	bk, err := book.Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("no opening book")
		return nil
	}
	return bk
}
