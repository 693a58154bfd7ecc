package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/laurel-hq/laurel/pkg/configuration"
)

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, configuration.Use().Database.Opts)
	if err != nil {
		return nil, withCode(exitDB, errors.Wrap(err, "db connect failed"))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, withCode(exitDB, errors.Wrap(err, "db ping failed"))
	}
	return pool, nil
}

// openSQL opens the database/sql handle goose runs migrations on.
func openSQL() (*sql.DB, error) {
	db, err := sql.Open("postgres", configuration.Use().Database.Opts)
	if err != nil {
		return nil, withCode(exitDB, errors.Wrap(err, "db open failed"))
	}
	return db, nil
}
