// Package fixtures loads seed data (teams and their events) from YAML.
package fixtures

import (
	"context"
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
)

type (
	Fixtures struct {
		Teams []Team `yaml:"teams"`
	}

	Team struct {
		team.NewTeam `yaml:",inline"`
		Events       []Event `yaml:"events"`
	}

	Event struct {
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Date        string   `yaml:"date"`
		Time        string   `yaml:"time"`
		Duration    int      `yaml:"duration"`
		Type        string   `yaml:"type"`
		Attendees   []string `yaml:"attendees"`
		Location    string   `yaml:"location"`
	}

	// Deps are the services seeding goes through.
	Deps struct {
		Teams      team.ServiceInterface
		Sessions   *calendar.Sessions
		Validate   *validator.Validate
		Translator ut.Translator
	}

	// Result counts what Apply created.
	Result struct {
		Teams  int
		Events int
	}
)

func Load(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixtures{}, errors.Wrap(err, "decoding fixtures")
	}
	return fx, nil
}

func (ev Event) form() calendar.EventForm {
	return calendar.EventForm{
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date,
		Time:        ev.Time,
		Duration:    strconv.Itoa(ev.Duration),
		Type:        ev.Type,
		Location:    ev.Location,
	}
}

// Apply creates the teams that do not exist yet, then adds their events.
// Events of teams that already existed are not seeded again.
func Apply(ctx context.Context, fx Fixtures, deps Deps) (Result, error) {
	var res Result
	for _, ft := range fx.Teams {
		nt := ft.NewTeam
		if err := nt.Validate(deps.Validate, deps.Teams); err != nil {
			if vErr, ok := errors.Cause(err).(*core.ValidationError); ok && vErr.Err == team.ErrSlugExists {
				continue
			}
			return res, errors.Wrapf(core.TranslateValidationErrors(err, deps.Translator), "validating team %q", ft.Name)
		}
		t, err := deps.Teams.Create(ctx, nt)
		if err != nil {
			return res, errors.Wrapf(err, "creating team %q", ft.Name)
		}
		res.Teams++

		sess, err := deps.Sessions.Open(ctx, t.ID)
		if err != nil {
			return res, errors.Wrapf(err, "opening calendar of team %q", t.Slug)
		}
		for _, fe := range ft.Events {
			in, err := fe.form().Validate(deps.Validate, deps.Translator)
			if err != nil {
				return res, errors.Wrapf(err, "validating event %q of team %q", fe.Title, t.Slug)
			}
			in.Attendees = fe.Attendees
			if _, err = sess.Create(ctx, in); err != nil {
				return res, errors.Wrapf(err, "creating event %q of team %q", fe.Title, t.Slug)
			}
			res.Events++
		}
	}
	return res, nil
}
