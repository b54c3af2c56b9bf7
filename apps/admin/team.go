package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	echoapi "github.com/itchub/itchub/apps/api/echo"
	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/team"
	"github.com/itchub/itchub/storage/fixtures"
)

type tokenArgs struct {
	subject  string
	username string
	email    string
	isAdmin  bool
	manages  []string // team IDs or slugs
}

func (cli *commandLine) addTeam(ctx context.Context, nt team.NewTeam) error {
	if err := nt.Validate(cli.validate, cli.teamSvc); err != nil {
		return core.TranslateValidationErrors(err, cli.translator)
	}
	t, err := cli.teamSvc.Create(ctx, nt)
	if err != nil {
		return errors.Wrap(err, "creating team")
	}
	fmt.Fprintf(cli.out, "team %q created: %s\n", t.Slug, t.ID)
	return nil
}

func (cli *commandLine) seed(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening fixtures")
	}
	defer f.Close()

	fx, err := fixtures.Load(f)
	if err != nil {
		return err
	}
	res, err := fixtures.Apply(ctx, fx, fixtures.Deps{
		Teams:      cli.teamSvc,
		Sessions:   cli.sessions,
		Validate:   cli.validate,
		Translator: cli.translator,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "seeded %d team(s) and %d event(s)\n", res.Teams, res.Events)
	return nil
}

// token prints a signed API token. Managed teams are resolved to their IDs.
func (cli *commandLine) token(ctx context.Context, args tokenArgs) error {
	manages := make([]string, 0, len(args.manages))
	for _, idOrSlug := range args.manages {
		t, err := cli.teamSvc.Get(ctx, idOrSlug)
		if err != nil {
			return errors.Wrapf(err, "finding team %q", idOrSlug)
		}
		manages = append(manages, t.ID)
	}

	claims := echoapi.NewClaims(cli.conf, args.subject, args.username, args.email, args.isAdmin, manages)
	token, err := echoapi.GenerateToken(cli.conf, claims)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
