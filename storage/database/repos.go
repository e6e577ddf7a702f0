package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/luct/core"
	inmemdb "github.com/trezcool/luct/storage/database/inmem"
	sqlxrepos "github.com/trezcool/luct/storage/database/sqlx"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Store is an opened backing store and its repositories.
type Store struct {
	Repositories
	DB *sql.DB // nil in memory
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// NewMemoryStore returns a Store over a fresh in-memory database.
func NewMemoryStore() *Store {
	db := inmemdb.Open()
	return &Store{
		Repositories: Repositories{
			Users:   inmemdb.NewUserRepository(db),
			Catalog: inmemdb.NewCatalogRepository(db),
			Reports: inmemdb.NewReportRepository(db),
		},
	}
}

// NewPostgresStore returns a Store over an opened postgres database.
func NewPostgresStore(db *sql.DB) *Store {
	xdb := sqlxrepos.Wrap(db)
	return &Store{
		Repositories: Repositories{
			Users:   sqlxrepos.NewUserRepository(xdb),
			Catalog: sqlxrepos.NewCatalogRepository(xdb),
			Reports: sqlxrepos.NewReportRepository(xdb),
		},
		DB: db,
	}
}

// Connect sets up the store selected by conf.Storage: postgres is created if needed, then migrated.
// The sample data is written when conf.Database.Seed is on.
func Connect(ctx context.Context, conf *core.Config, logger core.Logger) (*Store, error) {
	var store *Store

	switch conf.Storage {
	case StorageMemory:
		store = NewMemoryStore()
	case StoragePostgres, "":
		if err := CreateIfNotExist(ctx, conf); err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
		db, err := Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		store = NewPostgresStore(db)
	default:
		return nil, errors.Errorf("unknown storage %q", conf.Storage)
	}

	if conf.Database.Seed {
		res, err := Seed(ctx, store.Repositories)
		if err != nil {
			_ = store.Close()
			return nil, errors.Wrap(err, "seeding database")
		}
		if len(res.Users) > 0 {
			logger.Info("Sample data created")
		}
	}
	return store, nil
}
