package db

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rit3sh-x/fireview/core/constants"
)

// Pool opens the Postgres connection pool for the configured target URI.
func Pool(ctx context.Context, databaseURI string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURI)
	if err != nil {
		return nil, fmt.Errorf("%sFailed to parse database URI: %v%s", constants.RED, err, constants.RESET)
	}

	if maxConns := os.Getenv(constants.DB_MAX_CONNS_ENV); maxConns != "" {
		if val, err := strconv.Atoi(maxConns); err == nil {
			config.MaxConns = int32(val)
		}
	}
	if minConns := os.Getenv(constants.DB_MIN_CONNS_ENV); minConns != "" {
		if val, err := strconv.Atoi(minConns); err == nil {
			config.MinConns = int32(val)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%sFailed to create connection pool: %v%s", constants.RED, err, constants.RESET)
	}

	var ping int
	if err := pool.QueryRow(ctx, constants.TEST_QUERY).Scan(&ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%sFailed to ping database: %v%s", constants.RED, err, constants.RESET)
	}

	fmt.Printf("%s✔ Connected to database%s\n", constants.GREEN, constants.RESET)
	return pool, nil
}
