package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/storage/ics"
)

type importArgs struct {
	team     string
	file     string
	from, to string // YYYY-MM-DD
	max      int
}

// window returns the expansion window of recurring events, read in loc.
func (args importArgs) window(now time.Time, loc *time.Location) (from, to time.Time, err error) {
	from = calendar.StartOfDay(now.In(loc))
	if args.from != "" {
		if from, err = calendar.ParseDate(args.from, loc); err != nil {
			return from, to, errors.Wrap(err, "parsing -from")
		}
	}
	to = from.AddDate(0, 6, 0)
	if args.to != "" {
		if to, err = calendar.ParseDate(args.to, loc); err != nil {
			return from, to, errors.Wrap(err, "parsing -to")
		}
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond) // end of day
	}
	return from, to, nil
}

func (cli *commandLine) importICS(ctx context.Context, args importArgs) error {
	t, err := cli.teamSvc.Get(ctx, args.team)
	if err != nil {
		return errors.Wrapf(err, "finding team %q", args.team)
	}

	loc := cli.conf.Calendar.Location()
	from, to, err := args.window(calendar.NowFunc(), loc)
	if err != nil {
		return err
	}

	f, err := os.Open(args.file)
	if err != nil {
		return errors.Wrap(err, "opening calendar file")
	}
	defer f.Close()

	inputs, skipped, err := ics.Import(f, ics.ImportOptions{Location: loc, From: from, To: to, MaxPerEvent: args.max})
	if err != nil {
		return err
	}

	sess, err := cli.sessions.Open(ctx, t.ID)
	if err != nil {
		return errors.Wrapf(err, "opening calendar of team %q", t.Slug)
	}
	for _, in := range inputs {
		if _, err = sess.Create(ctx, in); err != nil {
			return errors.Wrapf(err, "creating event %q", in.Title)
		}
	}

	fmt.Fprintf(cli.out, "imported %d event(s) into %q\n", len(inputs), t.Slug)
	for _, uid := range skipped {
		fmt.Fprintf(cli.out, "skipped unreadable event %q\n", uid)
	}
	return nil
}

func (cli *commandLine) exportICS(ctx context.Context, idOrSlug, out string) error {
	t, err := cli.teamSvc.Get(ctx, idOrSlug)
	if err != nil {
		return errors.Wrapf(err, "finding team %q", idOrSlug)
	}
	sess, err := cli.sessions.Open(ctx, t.ID)
	if err != nil {
		return errors.Wrapf(err, "opening calendar of team %q", t.Slug)
	}

	feed, err := ics.Export(t, sess.List(), cli.conf.Calendar.Location())
	if err != nil {
		return err
	}
	if out == "" {
		_, err = fmt.Fprint(cli.out, feed)
		return err
	}
	if err = os.WriteFile(out, []byte(feed), 0o644); err != nil {
		return errors.Wrap(err, "writing calendar file")
	}
	fmt.Fprintf(cli.out, "exported %d event(s) of %q to %s\n", len(sess.List()), t.Slug, out)
	return nil
}
