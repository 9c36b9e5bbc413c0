// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/lifecycle"
	"github.com/danielhkuo/quickly-poll/logging"
	"github.com/danielhkuo/quickly-poll/store"
)

type openFunc func(ctx context.Context, dialect db.Dialect, url string) (*sql.DB, func() error, error)

// app is the state shared by every subcommand once the database is open.
type app struct {
	dbType  string
	dbURL   string
	envFile string
	verbose bool

	manager *lifecycle.Manager
	closeDB func() error
}

func newRootCmd(open openFunc) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pollctl",
		Short:         "Inspect and administer Quickly Poll polls",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cliparse.LoadEnvFile(a.envFile); err != nil {
				return err
			}

			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			logger := logging.New(os.Stderr, level)

			dialect, url, err := cliparse.ResolveDatabase(a.dbType, a.dbURL)
			if err != nil {
				return err
			}

			conn, closeDB, err := open(cmd.Context(), dialect, url)
			if err != nil {
				return err
			}
			a.closeDB = closeDB
			a.manager = lifecycle.NewManager(store.New(conn, dialect, logger), logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeDB == nil {
				return nil
			}
			return a.closeDB()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.dbType, "type", "t", "", "database type (sqlite or postgres)")
	flags.StringVarP(&a.dbURL, "database", "d", "", "database URL or SQLite path")
	flags.StringVar(&a.envFile, "env-file", ".env", "optional dotenv file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newResultsCmd(a),
		newCloseCmd(a),
		newSummaryCmd(a),
		newAdminKeyCmd(a),
	)

	return root
}

var errNoSalt = errors.New("ADMIN_KEY_SALT required (use --admin-salt or the environment)")
