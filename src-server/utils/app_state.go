package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// MetricChans carries per-request latencies from the routes to the
// Prometheus collectors.
type MetricChans struct {
	DatabaseRead   chan float64
	DatabaseWrite  chan float64
	CalendarExpand chan float64
}

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB

	// natural-language date parser backing the quick-add endpoint
	When *when.Parser

	MetricChans        MetricChans
	AppCloseSignalChan chan os.Signal

	shutdownMutex sync.Mutex
	shutdownChans []chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{
		MetricChans: MetricChans{
			DatabaseRead:   make(chan float64, 16),
			DatabaseWrite:  make(chan float64, 16),
			CalendarExpand: make(chan float64, 16),
		},
		AppCloseSignalChan: make(chan os.Signal, 1),
	}

	// date parser
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetSqlitePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(false),
		bundebug.FromEnv("BUNDEBUG"),
	))

	return as
}

// CreateGracefulShutdownChan hands out a channel that closes when the app
// shuts down; metric collectors use it to unregister themselves.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.shutdownMutex.Lock()
	defer as.shutdownMutex.Unlock()
	ch := make(chan struct{})
	as.shutdownChans = append(as.shutdownChans, ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.shutdownMutex.Lock()
	defer as.shutdownMutex.Unlock()
	for _, ch := range as.shutdownChans {
		close(ch)
	}
	as.shutdownChans = nil
	if err := as.BunDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
