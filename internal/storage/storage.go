package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game:"
)

// Preferences stores the player's engine settings between sessions.
type Preferences struct {
	PlayWhite  bool      `json:"play_white"`
	Depth      int       `json:"depth"` // 0 = automatic depth selection
	Workers    int       `json:"workers"`
	BookPath   string    `json:"book_path"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns the out-of-the-box settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		PlayWhite:  true,
		Depth:      0,
		Workers:    0,
		LastPlayed: time.Now(),
	}
}

// Stats aggregates results across all recorded games, from the player's
// point of view.
type Stats struct {
	GamesPlayed   int           `json:"games_played"`
	Wins          int           `json:"wins"`
	Losses        int           `json:"losses"`
	Draws         int           `json:"draws"`
	TotalPlayTime time.Duration `json:"total_play_time"`
	LongestStreak int           `json:"longest_win_streak"`
	CurrentStreak int           `json:"current_streak"`
}

// WinRate returns the player's win rate as a percentage.
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// GameRecord is one finished game.
type GameRecord struct {
	PlayedAt    time.Time     `json:"played_at"`
	PlayerWhite bool          `json:"player_white"`
	Result      string        `json:"result"` // "1-0", "0-1" or "1/2-1/2"
	Moves       []string      `json:"moves"`  // coordinate notation, in order
	Duration    time.Duration `json:"duration"`
}

// PlayerWon reports whether the human won the game.
func (g *GameRecord) PlayerWon() bool {
	return (g.Result == "1-0") == g.PlayerWhite && g.Result != "1/2-1/2"
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens the database under the platform data directory.
func Open() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens a database in the given directory.
func OpenAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logging is noise here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves the player's settings.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads the player's settings, or defaults if none saved.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // use defaults
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// LoadStats loads aggregate statistics, or empty stats if none recorded.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordGame persists a finished game and folds it into the statistics.
func (s *Storage) RecordGame(rec *GameRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += rec.Duration
	switch {
	case rec.Result == "1/2-1/2":
		stats.Draws++
		stats.CurrentStreak = 0
	case rec.PlayerWon():
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestStreak {
			stats.LongestStreak = stats.CurrentStreak
		}
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	recData, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	statsData, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s%d", gamePrefix, rec.PlayedAt.UnixNano())
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), recData); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}

// Games returns every recorded game, oldest first.
func (s *Storage) Games() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec GameRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				games = append(games, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return games, err
}
