// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command pollctl inspects and administers polls directly in the server's
// database.
package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/danielhkuo/quickly-poll/db"
)

func main() {
	root := newRootCmd(openDatabase)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, dialect db.Dialect, url string) (*sql.DB, func() error, error) {
	conn, err := db.Open(ctx, dialect, url)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}
