package db

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	dbPool    *pgxpool.Pool
	dbOnce    sync.Once
	initError error
)

const batchSize = 100

func initDB() error {
	dbHost := os.Getenv("DB_HOST")
	dbName := os.Getenv("DB_NAME")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return fmt.Errorf("unable to create connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("unable to ping database pool: %w", err)
	}

	dbPool = pool
	return nil
}

func getDB() (*pgxpool.Pool, error) {
	dbOnce.Do(func() {
		initError = initDB()
	})

	if initError != nil {
		return nil, initError
	}

	return dbPool, nil
}

func processBatchResults(br pgx.BatchResults, count int) error {
	for i := 0; i < count; i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("error executing batch item %d: %w", i, err)
		}
	}
	return br.Close()
}

func batchAndSave(items any, sqlQuery string, paramConverter func(item any) []any) error {
	db, err := getDB()
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}

	ctx := context.Background()
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	slice := reflect.ValueOf(items)
	if slice.Kind() != reflect.Slice {
		return fmt.Errorf("items must be a slice, got %v", slice.Kind())
	}

	sliceLen := slice.Len()
	for start := 0; start < sliceLen; start += batchSize {
		end := start + batchSize
		if end > sliceLen {
			end = sliceLen
		}

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			batch.Queue(sqlQuery, paramConverter(slice.Index(i).Interface())...)
		}

		br := tx.SendBatch(ctx, batch)
		if err := processBatchResults(br, batch.Len()); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
