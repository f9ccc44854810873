package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gymsuite/gymsuite-backend/config"
	accountrepo "github.com/gymsuite/gymsuite-backend/internal/accounts/repository"
	clubrepo "github.com/gymsuite/gymsuite-backend/internal/clubs/repository"
	"github.com/gymsuite/gymsuite-backend/internal/storage/dynamo"
	"github.com/gymsuite/gymsuite-backend/internal/storage/postgres"
	storeredis "github.com/gymsuite/gymsuite-backend/internal/storage/redis"
)

// Store bundles both repositories of the selected driver.
type Store struct {
	Driver   string
	Accounts accountrepo.Repository
	Clubs    clubrepo.Repository
	closers  []func() error
}

// OpenStore connects the driver named by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	s := &Store{Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.StoreDynamoDB:
		client, err := dynamo.NewClient(ctx, &cfg.Dynamo)
		if err != nil {
			return nil, err
		}
		s.Accounts = accountrepo.NewDynamoRepository(client, cfg.Dynamo.UsersTable)
		s.Clubs = clubrepo.NewDynamoRepository(client, clubrepo.DynamoTables{
			Records:        cfg.Dynamo.RecordsTable,
			Counters:       cfg.Dynamo.CountersTable,
			EmailIndex:     cfg.Dynamo.EmailIndex,
			EmailClubIndex: cfg.Dynamo.EmailClubIndex,
		})

	case config.StoreRedis:
		client, err := storeredis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.Accounts = accountrepo.NewRedisRepository(client)
		s.Clubs = clubrepo.NewRedisRepository(client)
		s.closers = append(s.closers, client.Close)

	case config.StorePostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		s.Accounts = accountrepo.NewPostgresRepository(db)
		s.Clubs = clubrepo.NewPostgresRepository(db)
		s.closers = append(s.closers, db.Close)

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	log.Info().Str("driver", s.Driver).Msg("store opened")
	return s, nil
}

// Ping checks both repositories.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.Accounts.Ping(ctx); err != nil {
		return err
	}
	return s.Clubs.Ping(ctx)
}

func (s *Store) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
