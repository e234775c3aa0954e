package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/rw-r-r-0644/oj-contest/contest"
	"github.com/rw-r-r-0644/oj-contest/snapshot"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the snapshot cache",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached contests",
				Action: func(c *cli.Context) error {
					return withCache(c, func(s *snapshot.Store) error {
						return runCacheList(os.Stdout, s)
					})
				},
			},
			{
				Name:      "rm",
				Usage:     "Drop cached contests",
				ArgsUsage: "<contest-id>...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("usage: cache rm <contest-id>...")
					}
					return withCache(c, func(s *snapshot.Store) error {
						return runCacheRemove(s, c.Args().Slice())
					})
				},
			},
		},
	}
}

func withCache(c *cli.Context, fn func(*snapshot.Store) error) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if cfg.Cache == "" {
		return errors.New("no cache file configured (via --cache or config file)")
	}
	s, err := snapshot.Open(cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer s.Close()
	return fn(s)
}

func runCacheList(w io.Writer, s *snapshot.Store) error {
	ids, err := s.IDs()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tTitle\tProblems\tSaved")
	for _, id := range ids {
		e, err := s.Load(id)
		if err != nil {
			return fmt.Errorf("load %s: %w", id, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", id, e.Contest.Title, len(e.Problems), contest.Moment{Time: e.SavedAt})
	}
	return tw.Flush()
}

// runCacheRemove drops every id, failing on the first one that is not cached.
func runCacheRemove(s *snapshot.Store, ids []string) error {
	for _, id := range ids {
		if _, err := s.Load(id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		if err := s.Delete(id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}
	return nil
}
