// Package digestsvc emails every team its upcoming events on a cron schedule.
package digestsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
	"github.com/itchub/itchub/storage/ics"
)

const templateName = "upcoming_digest"

type (
	Service struct {
		conf     *core.Config
		teams    team.ServiceInterface
		sessions *calendar.Sessions
		mailSvc  core.EmailService
		logger   core.Logger
		cron     *cron.Cron
	}

	digestData struct {
		TeamName string
		TeamSlug string
		Events   []calendar.UpcomingEvent
	}
)

func NewService(
	conf *core.Config,
	teams team.ServiceInterface,
	sessions *calendar.Sessions,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		conf:     conf,
		teams:    teams,
		sessions: sessions,
		mailSvc:  mailSvc,
		logger:   logger,
		cron:     cron.New(cron.WithLocation(conf.Calendar.Location())),
	}
}

// Start schedules the digest with the configured cron spec.
func (svc *Service) Start() error {
	spec := svc.conf.Digest.Spec
	if _, err := cron.ParseStandard(spec); err != nil {
		return errors.Wrapf(err, "parsing digest spec %q", spec)
	}
	if _, err := svc.cron.AddFunc(spec, svc.run); err != nil {
		return errors.Wrap(err, "scheduling digest")
	}
	svc.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running digest until ctx is done.
func (svc *Service) Stop(ctx context.Context) {
	select {
	case <-svc.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (svc *Service) run() {
	n, err := svc.RunOnce(context.Background(), calendar.NowFunc())
	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending digests: %v", err), err)
		return
	}
	svc.logger.Info(fmt.Sprintf("sent %d digest(s)", n))
}

// RunOnce sends the digest of every team having a mailing list and returns the number of messages sent.
func (svc *Service) RunOnce(ctx context.Context, now time.Time) (int, error) {
	teams, err := svc.teams.QueryAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying teams")
	}

	messages := make([]*core.EmailMessage, 0, len(teams))
	for _, t := range teams {
		to, ok := t.MailingAddress()
		if !ok {
			continue
		}
		sess, err := svc.sessions.Open(ctx, t.ID)
		if err != nil {
			err = errors.Wrapf(err, "opening calendar of team %q", t.Slug)
			svc.logger.Error(fmt.Sprintf("skipping digest: %v", err), err)
			continue
		}
		msg, err := svc.Message(t, sess.List(), now)
		if err != nil {
			err = errors.Wrapf(err, "building digest of team %q", t.Slug)
			svc.logger.Error(fmt.Sprintf("skipping digest: %v", err), err)
			continue
		}
		msg.To = append(msg.To, to)
		messages = append(messages, msg)
	}

	svc.mailSvc.SendMessages(messages...)
	return len(messages), nil
}

// Message builds the digest of team t, its calendar attached as an ICS file.
func (svc *Service) Message(t team.Team, events []calendar.Event, now time.Time) (*core.EmailMessage, error) {
	loc := svc.conf.Calendar.Location()
	msg := &core.EmailMessage{
		Subject:      t.Name + ": upcoming events",
		TemplateName: templateName,
		TemplateData: digestData{
			TeamName: t.Name,
			TeamSlug: t.Slug,
			Events:   calendar.Upcoming(events, now.In(loc), calendar.UpcomingLimit),
		},
	}

	feed, err := ics.Export(t, events, loc)
	if err != nil {
		return nil, errors.Wrapf(err, "exporting calendar of team %q", t.Slug)
	}
	if err = msg.Attach(strings.NewReader(feed), t.Slug+".ics", "text/calendar"); err != nil {
		return nil, errors.Wrap(err, "attaching calendar")
	}
	return msg, nil
}
