package store

import (
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/tokenkeep/internal/config"
	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/store/sqlite"
)

const DefaultSQLitePath = "tokenkeep.db"

// SQLiteOptions are the driver options accepted under storage.options for "sqlite".
type SQLiteOptions struct {
	Path string `mapstructure:"path"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the repository selected by cfg. The returned closer releases its resources.
func Open(cfg config.StorageConfig) (core.TokenRepository, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		log.Debug().Msg("using in-memory token store")
		return NewInMemoryTokenStore(), nopCloser{}, nil
	case config.DriverSQLite:
		var opts SQLiteOptions
		if err := mapstructure.Decode(cfg.Options, &opts); err != nil {
			return nil, nil, fmt.Errorf("decoding sqlite options: %w", err)
		}
		if opts.Path == "" {
			opts.Path = DefaultSQLitePath
		}
		db, err := sqlite.NewDB(opts.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite database '%s': %w", opts.Path, err)
		}
		if err := sqlite.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrating sqlite database: %w", err)
		}
		log.Debug().Str("path", opts.Path).Msg("using sqlite token store")
		return sqlite.NewTokenStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver '%s'", cfg.Driver)
	}
}
