// Command fianchetto plays a game of chess against the engine on the
// terminal.
package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/lbrandt/fianchetto/internal/book"
	"github.com/lbrandt/fianchetto/internal/cli"
	"github.com/lbrandt/fianchetto/internal/config"
	"github.com/lbrandt/fianchetto/internal/engine"
	"github.com/lbrandt/fianchetto/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal := zerolog.New(os.Stderr)
		fatal.Fatal().Err(err).Msg("bad configuration")
	}

	log := newLogger(cfg.LogLevel)

	// Persistence is a convenience; play without it if the DB won't open.
	store, err := storage.Open()
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, games will not be recorded")
		store = nil
	} else {
		defer store.Close()
	}

	opts := engine.Options{
		Depth:   cfg.Depth,
		Workers: cfg.Workers,
		Logger:  log,
		Book:    loadBook(cfg, log),
	}

	console := cli.New(os.Stdin, os.Stdout, opts, store, log)
	if err := console.Run(); err != nil {
		log.Debug().Err(err).Msg("game ended early")
	}
}

// loadBook opens the opening book. A missing or corrupt book is logged once
// and the engine plays from search alone.
func loadBook(cfg *config.Config, log zerolog.Logger) *book.Book {
	path := cfg.BookPath
	if path == "" {
		var err error
		if path, err = storage.DefaultBookPath(); err != nil {
			log.Warn().Err(err).Msg("no opening book")
			return nil
		}
	}

	bk, err := book.Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("no opening book")
		return nil
	}
	log.Info().Str("path", path).Int("positions", bk.Size()).Msg("opening book loaded")
	return bk
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
