package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/vitals/internal/app"
	"github.com/abhisek/vitals/internal/cache"
	"github.com/abhisek/vitals/internal/catalog"
	"github.com/abhisek/vitals/internal/coach"
	"github.com/abhisek/vitals/internal/llm"
	"github.com/abhisek/vitals/internal/sessions"
	"github.com/abhisek/vitals/internal/store"
)

// env holds the collaborators shared by the TUI, the server and the
// maintenance commands.
type env struct {
	store    *store.Store
	catalog  *catalog.Catalog
	sessions store.SessionRepo
	cache    *cache.SessionCache // nil unless VITALS_REDIS_URL is set
}

// openEnv opens the event store and picks the session backend: Redis when
// VITALS_REDIS_URL is set, the SQLite store otherwise.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()

	c, err := resolveCatalog(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{store: st, catalog: c, sessions: st.SessionRepo()}
	if url := os.Getenv("VITALS_REDIS_URL"); url != "" {
		sc, err := cache.Connect(ctx, url)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("connect session cache: %w", err)
		}
		e.cache = sc
		e.sessions = sc
	}
	return e, nil
}

func (e *env) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
	e.store.Close()
}

func (e *env) manager() *sessions.Manager {
	return sessions.NewManager(e.catalog, e.sessions, e.store.EventRepo())
}

// coach builds the coach service. Without an LLM provider it is returned
// unavailable rather than nil.
func (e *env) coach(ctx context.Context) *coach.Service {
	provider, ok, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Coach insights will be unavailable.")
		return coach.NewService(nil, coach.DefaultConfig())
	}
	if !ok {
		return coach.NewService(nil, coach.DefaultConfig())
	}
	return coach.NewService(provider, coach.DefaultConfig())
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(app.Options{
		Sessions:  e.manager(),
		EventRepo: e.store.EventRepo(),
		Coach:     e.coach(cmd.Context()),
	})
}
