package dig_container

import (
	"fmt"
	"log"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	echoapi "github.com/alramz/cxdash/apps/api/echo"
	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/cache"
	"github.com/alramz/cxdash/core/complaint"
	"github.com/alramz/cxdash/core/dashboard"
	"github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/core/reservation"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/core/user"
	emailsvc "github.com/alramz/cxdash/services/email"
	logsvc "github.com/alramz/cxdash/services/logger"
	"github.com/alramz/cxdash/storage/cachestore"
	"github.com/alramz/cxdash/storage/database"
	dummydb "github.com/alramz/cxdash/storage/database/dummy"
	sqlxrepos "github.com/alramz/cxdash/storage/database/sqlx"
)

// EngineDummy keeps every table in memory. Nothing survives a restart.
const EngineDummy = "dummy"

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Repositories come from PostgreSQL, or from memory with EngineDummy.
	Repositories struct {
		dig.Out
		Users        user.Repository
		Metrics      kpi.Repository
		Surveys      satisfaction.Repository
		Records      analytics.Repository
		Complaints   complaint.Repository
		Reservations reservation.Repository
	}

	// StoreCloser releases the cache store.
	StoreCloser func() error
)

func newLogger(conf *core.Config) core.Logger {
	return logsvc.NewLogger("API : ", conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.NewLogger("DB : ", conf)
}

// newDB returns a nil DB with EngineDummy.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	if conf.Database.Engine == EngineDummy {
		loggerParam.Logger.Warn("using the in-memory database")
		return nil
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB, "up"); err != nil {
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

func newRepositories(db *sqlx.DB) Repositories {
	if db == nil {
		mem := dummydb.Open()
		return Repositories{
			Users:        dummydb.NewUserRepository(mem),
			Metrics:      dummydb.NewMetricRepository(mem),
			Surveys:      dummydb.NewSurveyRepository(mem),
			Records:      dummydb.NewAnalyticsRepository(mem),
			Complaints:   dummydb.NewComplaintRepository(mem),
			Reservations: dummydb.NewReservationRepository(mem),
		}
	}
	return Repositories{
		Users:        sqlxrepos.NewUserRepository(db),
		Metrics:      sqlxrepos.NewMetricRepository(db),
		Surveys:      sqlxrepos.NewSurveyRepository(db),
		Records:      sqlxrepos.NewAnalyticsRepository(db),
		Complaints:   sqlxrepos.NewComplaintRepository(db),
		Reservations: sqlxrepos.NewReservationRepository(db),
	}
}

func newCacheStore(conf *core.Config, logger core.Logger) (cache.Store, StoreCloser) {
	store, closeStore, err := cachestore.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening cache store: %v", err), err)
	}
	return store, closeStore
}

func newCache(store cache.Store, logger core.Logger) *cache.Cache {
	cache.RegisterMetrics(prometheus.DefaultRegisterer)
	return cache.New(store, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAverageRecorder(svc analytics.ServiceInterface) satisfaction.AverageRecorder { return svc }

func newReportRecipients(svc user.ServiceInterface) dashboard.ReportRecipientsQuerier { return svc }

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newRepositories))
	must(c.Provide(newCacheStore))
	must(c.Provide(newCache))
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))

	must(c.Provide(user.NewService, dig.As(new(user.ServiceInterface))))
	must(c.Provide(kpi.NewService, dig.As(new(kpi.ServiceInterface))))
	must(c.Provide(analytics.NewService, dig.As(new(analytics.ServiceInterface))))
	must(c.Provide(newAverageRecorder))
	must(c.Provide(satisfaction.NewService, dig.As(new(satisfaction.ServiceInterface))))
	must(c.Provide(complaint.NewService, dig.As(new(complaint.ServiceInterface))))
	must(c.Provide(reservation.NewService, dig.As(new(reservation.ServiceInterface))))
	must(c.Provide(newReportRecipients))
	must(c.Provide(dashboard.NewService, dig.As(new(dashboard.ServiceInterface))))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
