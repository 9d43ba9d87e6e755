package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"

	echoapi "github.com/trezcool/jarida/apps/api/echo"
	"github.com/trezcool/jarida/core"
	"github.com/trezcool/jarida/core/analytics"
	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/org"
	"github.com/trezcool/jarida/core/user"
	emailsvc "github.com/trezcool/jarida/services/email"
	logsvc "github.com/trezcool/jarida/services/logger"
	"github.com/trezcool/jarida/storage/cache/redis"
	"github.com/trezcool/jarida/storage/database"
	dummydb "github.com/trezcool/jarida/storage/database/dummy"
	sqlxrepos "github.com/trezcool/jarida/storage/database/sqlx"
)

type repositories struct {
	user     user.Repository
	org      org.Repository
	entry    journal.Repository
	snapshot analytics.SnapshotRepository
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	repos, closeDB, err := setUpRepositories(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer closeDB()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(repos.user, mailSvc, conf, logger)
	orgSvc := org.NewService(repos.org)
	journalSvc := journal.NewService(repos.entry)
	runner := analytics.NewRunner(repos.user, repos.entry, repos.snapshot, logger, conf.Analytics.FetchConcurrency)
	analyticsSvc := analytics.NewService(runner, repos.snapshot)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(logger)
	user.LoadCommonPasswords(logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Options{
		Address:      conf.Server.Address,
		Logger:       logger,
		UserSvc:      usrSvc,
		OrgSvc:       orgSvc,
		JournalSvc:   journalSvc,
		AnalyticsSvc: analyticsSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-merge(osSignals, server.ShutdownSignal()):
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

// setUpRepositories wires the in-memory database in DEV mode, and Postgres
// fronted by the Redis snapshot cache everywhere else.
func setUpRepositories(conf *core.Config, logger core.Logger) (repositories, func(), error) {
	if conf.Debug {
		db, err := dummydb.Open()
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			user:     dummydb.NewUserRepository(db),
			org:      dummydb.NewOrgRepository(db),
			entry:    dummydb.NewEntryRepository(db),
			snapshot: dummydb.NewSnapshotRepository(db),
		}, func() {}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return repositories{}, nil, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return repositories{}, nil, err
	}
	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return repositories{}, nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	closeAll := func() {
		if err := db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
		if err := redisClient.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing redis client: %v", err), err)
		}
	}

	snapRepo := rediscache.NewSnapshotRepository(
		sqlxrepos.NewSnapshotRepository(db), redisClient, conf.Redis.TTL, logger,
	)
	return repositories{
		user:     sqlxrepos.NewUserRepository(db),
		org:      sqlxrepos.NewOrgRepository(db),
		entry:    sqlxrepos.NewEntryRepository(db),
		snapshot: snapRepo,
	}, closeAll, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func merge(chans ...<-chan os.Signal) <-chan os.Signal {
	out := make(chan os.Signal, 1)
	for _, ch := range chans {
		ch := ch
		go func() {
			for sig := range ch {
				out <- sig
			}
		}()
	}
	return out
}
