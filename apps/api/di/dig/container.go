package dig_container

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/itchub/itchub/apps/api/echo"
	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
	digestsvc "github.com/itchub/itchub/services/digest"
	emailsvc "github.com/itchub/itchub/services/email"
	logsvc "github.com/itchub/itchub/services/logger"
	notifysvc "github.com/itchub/itchub/services/notify"
	"github.com/itchub/itchub/storage/database"
	dummydb "github.com/itchub/itchub/storage/database/dummy"
	sqlxrepos "github.com/itchub/itchub/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	Repositories struct {
		dig.Out
		Teams  team.Repository
		Events calendar.Repository
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newDB returns nil when the app runs in memory.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *sql.DB {
	if conf.Database.InMemory() {
		return nil
	}

	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newRepositories(db *sql.DB, loggerParam DBLoggerParam) Repositories {
	if db == nil {
		loggerParam.Logger.Info("using the in-memory store; data is lost on restart")
		mem, _ := dummydb.Open()
		return Repositories{
			Teams:  dummydb.NewTeamRepository(mem),
			Events: dummydb.NewEventRepository(mem),
		}
	}
	xdb := sqlxrepos.Wrap(db)
	return Repositories{
		Teams:  sqlxrepos.NewTeamRepository(xdb),
		Events: sqlxrepos.NewEventRepository(xdb),
	}
}

// newTelegramNotifier returns nil when no bot token is configured.
func newTelegramNotifier(conf *core.Config, logger core.Logger, teamSvc team.ServiceInterface) *notifysvc.TelegramNotifier {
	if conf.Telegram.Token == "" {
		return nil
	}
	bot, err := notifysvc.NewTelegramBot(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("telegram notifications disabled: %v", err), err)
		return nil
	}
	chats := func(teamID string) int64 {
		if t, err := teamSvc.Get(context.Background(), teamID); err == nil && t.TelegramChatID != 0 {
			return t.TelegramChatID
		}
		return conf.Telegram.ChatID
	}
	return notifysvc.NewTelegramNotifier(bot, chats, logger)
}

func newNotifier(logger core.Logger, tg *notifysvc.TelegramNotifier) calendar.Notifier {
	notifiers := notifysvc.Multi{notifysvc.NewLogNotifier(logger)}
	if tg != nil {
		notifiers = append(notifiers, tg)
	}
	return notifiers
}

func newSessions(repo calendar.Repository, notifier calendar.Notifier) *calendar.Sessions {
	return calendar.NewSessions(repo, notifier)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	teamSvc team.ServiceInterface,
	sessions *calendar.Sessions,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		TeamSvc:    teamSvc,
		Sessions:   sessions,
		Validate:   validate,
		Translator: translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(team.NewService, dig.As(new(team.ServiceInterface))))
	must(c.Provide(newTelegramNotifier))
	must(c.Provide(newNotifier))
	must(c.Provide(newSessions))
	must(c.Provide(digestsvc.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
