package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/cache"
	"github.com/alramz/cxdash/core/dashboard"
	"github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/core/user"
	appfs "github.com/alramz/cxdash/fs"
	emailsvc "github.com/alramz/cxdash/services/email"
	logsvc "github.com/alramz/cxdash/services/logger"
	"github.com/alramz/cxdash/storage/cachestore"
	"github.com/alramz/cxdash/storage/database"
	dummydb "github.com/alramz/cxdash/storage/database/dummy"
	sqlxrepos "github.com/alramz/cxdash/storage/database/sqlx"
)

const engineDummy = "dummy"

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewLogger("ADMIN : ", conf)

	// set up DB & repos
	var (
		sqlDB        *sql.DB
		usrRepo      user.Repository
		metricRepo   kpi.Repository
		surveyRepo   satisfaction.Repository
		analyticRepo analytics.Repository
	)
	if conf.Database.Engine == engineDummy {
		mem := dummydb.Open()
		usrRepo = dummydb.NewUserRepository(mem)
		metricRepo = dummydb.NewMetricRepository(mem)
		surveyRepo = dummydb.NewSurveyRepository(mem)
		analyticRepo = dummydb.NewAnalyticsRepository(mem)
	} else {
		db, err := database.Open(conf)
		errAndDie(logger, err)
		defer func() { _ = db.Close() }()
		errAndDie(logger, db.Ping())

		sqlDB = db.DB
		usrRepo = sqlxrepos.NewUserRepository(db)
		metricRepo = sqlxrepos.NewMetricRepository(db)
		surveyRepo = sqlxrepos.NewSurveyRepository(db)
		analyticRepo = sqlxrepos.NewAnalyticsRepository(db)
	}

	// set up services
	store, closeStore, err := cachestore.Open(conf)
	errAndDie(logger, err)
	defer func() { _ = closeStore() }()
	c := cache.New(store, logger)

	core.ParseEmailTemplates(conf, appfs.FS, appfs.EmailTemplatesDir, logger)
	mailSvc := emailsvc.NewService(conf, logger)

	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	analyticsSvc := analytics.NewService(analyticRepo, c)
	dashSvc := dashboard.NewService(
		kpi.NewService(metricRepo, c),
		satisfaction.NewService(surveyRepo, analyticsSvc, c, logger),
		analyticsSvc,
		usrSvc,
		mailSvc,
	)

	// start CLI
	cli := commandLine{
		db:      sqlDB,
		usrRepo: usrRepo,
		dashSvc: dashSvc,
		logger:  logger,
	}
	err = cli.run(os.Args)
	emailsvc.Wait()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
