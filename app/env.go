// Package app wraps all other important packages.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/auth"
	"gitlab.com/olaris/olaris-variants/capability"
	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/helpers"
	"gitlab.com/olaris/olaris-variants/pkg/config"
	"gitlab.com/olaris/olaris-variants/preferences"
)

// Options configures NewAppContext.
type Options struct {
	Database           catalog.DatabaseOptions
	StaticCapabilities []string
	SessionTTL         time.Duration
	RequireTickets     bool
	TicketSecret       string
	// SweepInterval defaults to a minute.
	SweepInterval time.Duration
}

// AppContext is a container for all important vars.
type AppContext struct {
	Db          *gorm.DB
	Preferences *preferences.List
	Sessions    *capability.Sessions
	// Headless answers for requests that carry no capability session.
	Headless capability.Map

	Tickets        *auth.Tickets
	RequireTickets bool

	exitChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDefaultAppContext creates a context from the viper configuration. Without
// a configured connection the catalog is a sqlite file in the config dir.
func NewDefaultAppContext() (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	conn := cfg.Database.Connection
	if conn == "" {
		if err := helpers.EnsurePath(helpers.BaseConfigPath()); err != nil {
			return nil, err
		}
		conn = fmt.Sprintf("sqlite3://%s", helpers.DatabasePath())
	}

	return NewAppContext(Options{
		Database: catalog.DatabaseOptions{
			Connection: conn,
			LogMode:    cfg.Server.DBLog,
		},
		StaticCapabilities: cfg.Capabilities.Static,
		SessionTTL:         cfg.Capabilities.SessionTTL,
		RequireTickets:     cfg.Server.RequireTickets,
		TicketSecret:       cfg.Server.TicketSecret,
	})
}

// NewTestingAppContext creates an AppContext backed by an in-memory catalog.
func NewTestingAppContext() *AppContext {
	ctx, err := NewAppContext(Options{
		Database:     catalog.DatabaseOptions{Connection: catalog.InMemory},
		TicketSecret: "testing",
	})
	if err != nil {
		panic(err)
	}
	return ctx
}

// NewAppContext opens the catalog, loads the preference list and starts the
// session sweeper.
func NewAppContext(opts Options) (*AppContext, error) {
	log.Printf("olaris variant server - version \"%s\"", helpers.Version)

	database, err := catalog.NewDb(opts.Database)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog")
	}
	database.SetLogger(&GormLogger{})
	database.LogMode(opts.Database.LogMode)

	prefs, err := preferences.Load(catalog.PreferenceStore{})
	if err != nil {
		database.Close()
		return nil, errors.Wrap(err, "failed to load codec preferences")
	}
	prefs.OnChange(func(order []codec.ID) {
		log.WithField("order", order).Infoln("codec preference order changed")
	})

	var headless capability.Map
	if len(opts.StaticCapabilities) > 0 {
		headless = capability.Scan(capability.NewStaticMatrix(opts.StaticCapabilities), codec.All())
		log.WithField("capabilities", headless).Debugln("using static capability matrix")
	}

	secret, err := auth.TokenSecret(opts.TicketSecret)
	if err != nil {
		database.Close()
		return nil, errors.Wrap(err, "failed to load stream ticket secret")
	}

	env := &AppContext{
		Db:             database,
		Preferences:    prefs,
		Sessions:       capability.NewSessions(opts.SessionTTL),
		Headless:       headless,
		Tickets:        auth.NewTickets(secret, auth.DefaultTicketLifetime),
		RequireTickets: opts.RequireTickets,
		exitChan:       make(chan struct{}),
	}

	interval := opts.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	env.wg.Add(1)
	go env.sweepSessions(interval)

	return env, nil
}

func (a *AppContext) sweepSessions(interval time.Duration) {
	defer a.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.exitChan:
			return
		case <-ticker.C:
			if n := a.Sessions.Sweep(); n > 0 {
				log.WithField("removed", n).Debugln("expired idle capability sessions")
			}
		}
	}
}

// Capabilities returns the capability map for session, falling back to the
// headless matrix when the session is unknown.
func (a *AppContext) Capabilities(session string) capability.Map {
	if m, ok := a.Sessions.Lookup(session); ok {
		return m
	}
	return a.Headless
}

// Cleanup cleans up any running threads / processes for the context.
func (a *AppContext) Cleanup() {
	a.closeOnce.Do(func() {
		close(a.exitChan)
		a.wg.Wait()
		a.Db.Close()
		log.Infoln("closed application context")
	})
}
