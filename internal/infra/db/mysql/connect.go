package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const schema = `
CREATE TABLE IF NOT EXISTS product_analyses (
  id          BIGINT NOT NULL AUTO_INCREMENT,
  image_data  LONGTEXT NOT NULL,
  image_url   VARCHAR(1024) NOT NULL DEFAULT '',
  title       TEXT NOT NULL,
  description TEXT NOT NULL,
  hashtags    JSON NOT NULL,
  categories  JSON NOT NULL,
  settings    JSON NOT NULL,
  created_at  DATETIME(6) NOT NULL,
  PRIMARY KEY (id),
  KEY idx_product_analyses_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the product_analyses table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create product_analyses: %w", err)
	}
	return nil
}
