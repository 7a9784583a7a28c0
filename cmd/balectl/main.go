// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/danielhkuo/bale-scorer/auth"
	"github.com/danielhkuo/bale-scorer/cliparse"
	"github.com/danielhkuo/bale-scorer/persist"
	"github.com/danielhkuo/bale-scorer/store"
)

func main() {
	// flag env vars are read during parsing, so the file must load first
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("balectl failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "balectl",
		Usage: "maintenance jobs for the bale scorer stores",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, EnvVars: []string{"DATABASE_TYPE"}, Value: cliparse.DatabaseMemory, Usage: "remote store (memory, postgres or redis)"},
			&cli.StringFlag{Name: "database-url", Aliases: []string{"d"}, EnvVars: []string{"DATABASE_URL"}, Usage: "Postgres URL"},
			&cli.StringFlag{Name: "redis-url", EnvVars: []string{"REDIS_URL"}, Usage: "Redis URL"},
			&cli.StringFlag{Name: "redis-password", EnvVars: []string{"REDIS_PASSWORD"}, Usage: "Redis password"},
			&cli.StringFlag{Name: "local-dir", EnvVars: []string{"LOCAL_DIR"}, Value: ".", Usage: "directory of the local fallback store"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			archiveProfilesCommand(),
			archiveBaleCommand(),
		},
	}
}

func configFrom(c *cli.Context) cliparse.Config {
	return cliparse.Config{
		DatabaseType:  c.String("type"),
		DatabaseURL:   c.String("database-url"),
		RedisURL:      c.String("redis-url"),
		RedisPassword: c.String("redis-password"),
		LocalDir:      c.String("local-dir"),
	}
}

func openRemote(c *cli.Context) (store.RemoteStore, func() error, error) {
	return store.Open(c.Context, configFrom(c))
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "rewrite stored bales into the current document shape",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "report what would change without writing"},
		},
		Action: func(c *cli.Context) error {
			r, closeFn, err := openRemote(c)
			if err != nil {
				return err
			}
			defer closeFn()

			lr, err := asRemote(r)
			if err != nil {
				return err
			}

			rep, err := migrateBales(c.Context, lr, c.Bool("dry-run"))
			if err != nil {
				return err
			}

			verb := "Rewrote"
			if c.Bool("dry-run") {
				verb = "Would rewrite"
			}
			for _, key := range rep.Rewritten {
				fmt.Fprintf(c.App.Writer, "%s %s\n", verb, key)
			}
			fmt.Fprintf(c.App.Writer, "Scanned %d bales: %d rewritten, %d skipped\n",
				rep.Scanned, len(rep.Rewritten), len(rep.Skipped))
			return nil
		},
	}
}

func archiveProfilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive-profiles",
		Usage: "copy every profile into a timestamped archive",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "delete", Usage: "remove the originals after copying"},
		},
		Action: func(c *cli.Context) error {
			r, closeFn, err := openRemote(c)
			if err != nil {
				return err
			}
			defer closeFn()

			lr, err := asRemote(r)
			if err != nil {
				return err
			}

			stamp := time.Now().UTC().Format("20060102T150405Z")
			n, err := archiveProfiles(c.Context, lr, stamp, c.Bool("delete"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Archived %d profiles under archive/profiles/%s/\n", n, stamp)
			return nil
		},
	}
}

func archiveBaleCommand() *cli.Command {
	return &cli.Command{
		Name:  "archive-bale",
		Usage: "archive a profile's current bale",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile", Required: true, Usage: "profile key"},
			&cli.BoolFlag{Name: "clear", Usage: "also delete the current bale and app state"},
		},
		Action: func(c *cli.Context) error {
			profile := c.String("profile")
			if err := auth.ValidateProfileKey(profile); err != nil {
				return err
			}

			r, closeFn, err := openRemote(c)
			if err != nil {
				return err
			}
			defer closeFn()

			local, err := store.OpenSQLite(c.String("local-dir"))
			if err != nil {
				return err
			}
			defer local.Close()

			p := persist.New(r, local, persist.DefaultOptions(), nil)
			bale, err := archiveBale(c.Context, r, p, profile, c.Bool("clear"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Archived bale %s (bale %d, %d archers) to %s\n",
				bale.ID, bale.BaleNumber, len(bale.Archers), persist.ArchivedBaleKey(profile, bale.ID))
			return nil
		},
	}
}
