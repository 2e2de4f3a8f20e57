package main

import (
	"context"
	"fmt"
	"net"

	"github.com/evantbyrne/vessel"
	"github.com/evantbyrne/vessel/internal/logr"
	"github.com/evantbyrne/vessel/pqdialect"
	"github.com/evantbyrne/vessel/render"
	"github.com/evantbyrne/vessel/sqlitedialect"
	"github.com/evantbyrne/vessel/store"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

func newServeCommand(opts *options) *cobra.Command {
	var (
		address string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve element documents over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("address") {
				opts.cfg.Server.Address = address
			}
			return serve(cmd.Context(), opts, migrate)
		},
	}
	cmd.Flags().StringVar(&address, "address", ":8080", "Listening address")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, opts *options, migrate bool) error {
	logger, err := logr.New(opts.logger)
	if err != nil {
		return err
	}
	locale, err := language.Parse(opts.cfg.Render.DefaultLocale)
	if err != nil {
		return fmt.Errorf("render.default_locale: %w", err)
	}
	db, err := openStore(opts)
	if err != nil {
		return err
	}
	defer db.DB.Close()

	if migrate {
		logs, err := vessel.MigrateUp(ctx, db.DB, db.Dialect, store.Migrations())
		for _, line := range logs {
			logger.Info(line)
		}
		if err != nil {
			return err
		}
	}

	app := vessel.NewApp(logger)
	elements := &vessel.Elements{
		Store:         db,
		Engine:        render.NewEngine(opts.cfg.Render.DefaultEncoding),
		Logger:        logger.WithName("element"),
		DefaultLocale: locale,
	}
	elements.AddHandlers(app)
	server := vessel.NewServer(logger, vessel.ServerConfig{EnableRequestLogging: opts.cfg.Server.RequestLogging}, app)

	ln, err := net.Listen("tcp", opts.cfg.Server.Address)
	if err != nil {
		return err
	}
	return server.Start(ctx, ln)
}

func dialectFor(driver string) (vessel.Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return sqlitedialect.SqliteDialect{}, nil
	case "pgx", "postgres":
		return pqdialect.PqDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

func openStore(opts *options) (*store.Store, error) {
	dialect, err := dialectFor(opts.cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dialect, opts.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	s, err := store.New(db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
