package main

import (
	"database/sql"
	"errors"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	urfave "github.com/urfave/cli/v2"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
)

var (
	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("no database configured (the in-memory store has no migrations)")
)

type commandLine struct {
	conf       *core.Config
	db         *sql.DB // nil with the in-memory store
	teamSvc    team.ServiceInterface
	sessions   *calendar.Sessions
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) run(args []string) error {
	app := &urfave.App{
		Name:            "admin",
		Usage:           "ITC Hub administration",
		Writer:          cli.out,
		ErrWriter:       cli.out,
		HideHelpCommand: true,
		Action: func(c *urfave.Context) error {
			_ = urfave.ShowAppHelp(c)
			return errHelp
		},
		Commands: []*urfave.Command{
			cli.migrateCommand(),
			cli.addTeamCommand(),
			cli.seedCommand(),
			cli.importCommand(),
			cli.exportCommand(),
			cli.tokenCommand(),
		},
	}
	return app.Run(args)
}

func (cli *commandLine) migrateCommand() *urfave.Command {
	return &urfave.Command{
		Name:      "migrate",
		Usage:     "run a goose migration command (up, down, status, ...)",
		ArgsUsage: "COMMAND [ARGS...]",
		Action: func(c *urfave.Context) error {
			if c.NArg() == 0 {
				_ = urfave.ShowCommandHelp(c, "migrate")
				return errHelp
			}
			return cli.migrate(c.Args().Slice())
		},
	}
}

func (cli *commandLine) addTeamCommand() *urfave.Command {
	return &urfave.Command{
		Name:  "addteam",
		Usage: "create a team",
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: "name", Usage: "team name", Required: true},
			&urfave.StringFlag{Name: "slug", Usage: "URL name; derived from the name when empty"},
			&urfave.StringFlag{Name: "department", Usage: "department the team belongs to"},
			&urfave.StringFlag{Name: "mailing-list", Usage: "address receiving the upcoming events digest"},
			&urfave.Int64Flag{Name: "chat-id", Usage: "Telegram chat receiving the team notifications"},
		},
		Action: func(c *urfave.Context) error {
			return cli.addTeam(c.Context, team.NewTeam{
				Name:           c.String("name"),
				Slug:           c.String("slug"),
				Department:     c.String("department"),
				MailingList:    c.String("mailing-list"),
				TelegramChatID: c.Int64("chat-id"),
			})
		},
	}
}

func (cli *commandLine) seedCommand() *urfave.Command {
	return &urfave.Command{
		Name:  "seed",
		Usage: "load teams and events from a YAML fixtures file",
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "fixtures file", Required: true},
		},
		Action: func(c *urfave.Context) error {
			return cli.seed(c.Context, c.String("file"))
		},
	}
}

func (cli *commandLine) importCommand() *urfave.Command {
	return &urfave.Command{
		Name:  "import",
		Usage: "import the events of an iCalendar file into a team calendar",
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: "team", Usage: "team ID or slug", Required: true},
			&urfave.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "iCalendar (.ics) file", Required: true},
			&urfave.StringFlag{Name: "from", Usage: "expand recurring events from this date (YYYY-MM-DD); today by default"},
			&urfave.StringFlag{Name: "to", Usage: "expand recurring events up to this date (YYYY-MM-DD); 6 months after -from by default"},
			&urfave.IntFlag{Name: "max", Usage: "max occurrences per recurring event", Value: 100},
		},
		Action: func(c *urfave.Context) error {
			return cli.importICS(c.Context, importArgs{
				team: c.String("team"),
				file: c.String("file"),
				from: c.String("from"),
				to:   c.String("to"),
				max:  c.Int("max"),
			})
		},
	}
}

func (cli *commandLine) exportCommand() *urfave.Command {
	return &urfave.Command{
		Name:  "export",
		Usage: "export a team calendar as iCalendar",
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: "team", Usage: "team ID or slug", Required: true},
			&urfave.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file; stdout by default"},
		},
		Action: func(c *urfave.Context) error {
			return cli.exportICS(c.Context, c.String("team"), c.String("out"))
		},
	}
}

func (cli *commandLine) tokenCommand() *urfave.Command {
	return &urfave.Command{
		Name:  "token",
		Usage: "issue an API token",
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: "subject", Usage: "member ID", Required: true},
			&urfave.StringFlag{Name: "username", Usage: "member username"},
			&urfave.StringFlag{Name: "email", Usage: "member email"},
			&urfave.BoolFlag{Name: "admin", Usage: "grant admin rights"},
			&urfave.StringSliceFlag{Name: "manages", Usage: "ID or slug of a team the member manages (repeatable)"},
		},
		Action: func(c *urfave.Context) error {
			return cli.token(c.Context, tokenArgs{
				subject:  c.String("subject"),
				username: c.String("username"),
				email:    c.String("email"),
				isAdmin:  c.Bool("admin"),
				manages:  c.StringSlice("manages"),
			})
		},
	}
}
