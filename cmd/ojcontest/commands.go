package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rw-r-r-0644/oj-contest/contest"
	"github.com/rw-r-r-0644/oj-contest/ojapi"
)

var nowFlag = &cli.StringFlag{
	Name:  "now",
	Usage: `Pretend the clock reads this time (RFC 3339 or e.g. "in 2 hours")`,
}

func backendsCommand() *cli.Command {
	return &cli.Command{
		Name:  "backends",
		Usage: "List available judge backends",
		Action: func(c *cli.Context) error {
			return runBackends(os.Stdout)
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a contest as the contest page sees it",
		ArgsUsage: "<contest-id>",
		Flags: []cli.Flag{
			nowFlag,
			&cli.BoolFlag{Name: "json", Usage: "Print the full view as JSON"},
		},
		Action: func(c *cli.Context) error {
			id, err := contestArg(c)
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			now, err := parseNow(c.String("now"), time.Now())
			if err != nil {
				return err
			}
			store, viewer, err := loadContest(c.Context, e, id)
			if err != nil {
				return err
			}
			store.Commit(contest.SetNow{Now: now})

			view := store.View(viewer)
			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return printView(os.Stdout, view)
		},
	}
}

func problemsCommand() *cli.Command {
	return &cli.Command{
		Name:      "problems",
		Usage:     "List the problems of a contest",
		ArgsUsage: "<contest-id>",
		Action: func(c *cli.Context) error {
			id, err := contestArg(c)
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			store := contest.NewStore(e.client, contest.StaticRoute(id), contest.WithLogger(e.logger))
			return printProblems(os.Stdout, store.GetContestProblems(c.Context))
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Print the contest countdown until it ends",
		ArgsUsage: "<contest-id>",
		Flags: []cli.Flag{
			nowFlag,
			&cli.DurationFlag{Name: "interval", Value: time.Second, Usage: "Clock tick interval"},
		},
		Action: func(c *cli.Context) error {
			id, err := contestArg(c)
			if err != nil {
				return err
			}
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			var clock contest.Clock = contest.SystemClock{}
			if v := c.String("now"); v != "" {
				start, err := parseNow(v, time.Now())
				if err != nil {
					return err
				}
				clock = contest.ShiftedTo(start)
			}

			store, _, err := loadContest(c.Context, e, id)
			if err != nil {
				return err
			}
			return runWatch(c.Context, os.Stdout, store, clock, c.Duration("interval"))
		},
	}
}

func contestArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("usage: %s <contest-id>", c.Command.Name)
	}
	return c.Args().First(), nil
}

// loadContest builds a store for id and runs the page's initial fetches.
func loadContest(ctx context.Context, e *env, id string) (*contest.Store, contest.Viewer, error) {
	store := contest.NewStore(e.client, contest.StaticRoute(id), contest.WithLogger(e.logger))

	profile, err := e.client.GetProfile(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "profile lookup failed, continuing anonymously", "error", err)
	}
	viewer := contest.ViewerFromProfile(profile)

	if _, err := store.GetContest(ctx); err != nil {
		return nil, viewer, err
	}
	store.GetContestProblems(ctx)
	return store, viewer, nil
}

func runBackends(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tSettings")
	for _, b := range ojapi.Backends() {
		settings := ""
		for i, s := range b.Settings {
			if i > 0 {
				settings += ", "
			}
			settings += s.ID
			if s.Required {
				settings += "*"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.Name, settings)
	}
	return tw.Flush()
}

func printView(w io.Writer, v contest.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Title:\t%s\n", v.Contest.Title)
	fmt.Fprintf(tw, "Type:\t%s\n", v.Contest.ContestType)
	fmt.Fprintf(tw, "Rule:\t%s\n", v.ContestRuleType)
	fmt.Fprintf(tw, "Status:\t%s\n", v.ContestStatus.Label())
	fmt.Fprintf(tw, "Start:\t%s\n", contest.Moment{Time: v.ContestStartTime})
	fmt.Fprintf(tw, "End:\t%s\n", contest.Moment{Time: v.ContestEndTime})
	fmt.Fprintf(tw, "Countdown:\t%s\n", v.Countdown)
	fmt.Fprintf(tw, "Admin:\t%v\n", v.IsContestAdmin)
	fmt.Fprintf(tw, "Access:\t%v\n", v.Access)
	fmt.Fprintf(tw, "Menu disabled:\t%v\n", v.ContestMenuDisabled)
	fmt.Fprintf(tw, "Password required:\t%v\n", v.PasswordFormVisible)
	fmt.Fprintf(tw, "Submit disabled:\t%v\n", v.ProblemSubmitDisabled)
	fmt.Fprintf(tw, "Live rank:\t%v\n", v.OIContestRealTimePermission)
	fmt.Fprintf(tw, "Problems:\t%d\n", len(v.Problems))
	return tw.Flush()
}

func printProblems(w io.Writer, problems []ojapi.Problem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tTitle")
	for _, p := range problems {
		fmt.Fprintf(tw, "%s\t%s\n", p.DisplayID, p.Title)
	}
	return tw.Flush()
}

const noEndTime = "No end time"

// runWatch ticks the store clock and prints the countdown on change. It stops once the
// contest has ended or is not loaded, when an underway contest has no end time to count
// down to, or when ctx is cancelled.
func runWatch(ctx context.Context, w io.Writer, store *contest.Store, clock contest.Clock, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	last := ""
	err := contest.Tick(ctx, store, clock, interval, func(st contest.State) {
		status := st.ContestStatus()
		open := status == contest.Underway && !st.ContestEndTime().Valid()

		text := st.Countdown()
		if open {
			text = noEndTime
		}
		if text != last {
			fmt.Fprintln(w, text)
			last = text
		}
		if open || status == contest.Ended || status == contest.StatusUnknown {
			cancel()
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
