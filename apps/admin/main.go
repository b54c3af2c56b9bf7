package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/core/team"
	"github.com/itchub/itchub/storage/database"
	dummydb "github.com/itchub/itchub/storage/database/dummy"
	sqlxrepos "github.com/itchub/itchub/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB & repos
	var (
		db        *sql.DB
		teamRepo  team.Repository
		eventRepo calendar.Repository
	)
	if conf.Database.InMemory() {
		mem, _ := dummydb.Open()
		teamRepo = dummydb.NewTeamRepository(mem)
		eventRepo = dummydb.NewEventRepository(mem)
	} else {
		var err error
		db, err = database.Open(conf)
		errAndDie(err)
		errAndDie(db.Ping())

		xdb := sqlxrepos.Wrap(db)
		teamRepo = sqlxrepos.NewTeamRepository(xdb)
		eventRepo = sqlxrepos.NewEventRepository(xdb)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	calendar.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		conf:       conf,
		db:         db,
		teamSvc:    team.NewService(teamRepo),
		sessions:   calendar.NewSessions(eventRepo, nil),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	err := cli.run(os.Args)
	if db != nil {
		_ = db.Close()
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
