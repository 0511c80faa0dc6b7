package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"

	deckinadapter "prepdeck/internal/modules/deck/adapter/in"
	deckoutadapter "prepdeck/internal/modules/deck/adapter/out"
	deckdomain "prepdeck/internal/modules/deck/domain"
	deckdto "prepdeck/internal/modules/deck/dto"
	deckservice "prepdeck/internal/modules/deck/service"
	deckusecase "prepdeck/internal/modules/deck/usecase"
	practiceinadapter "prepdeck/internal/modules/practice/adapter/in"
	practiceoutadapter "prepdeck/internal/modules/practice/adapter/out"
	practiceservice "prepdeck/internal/modules/practice/service"
	practiceusecase "prepdeck/internal/modules/practice/usecase"
	"prepdeck/internal/platform/clock"
	"prepdeck/internal/platform/config"
	"prepdeck/internal/platform/random"
	"prepdeck/internal/platform/scheduler"
	uiapp "prepdeck/internal/ui/app"
)

type App struct {
	DeckCLI     deckinadapter.CLIHandler
	PracticeCLI practiceinadapter.CLIHandler
	DeckHTTP    *deckinadapter.HTTPHandler

	cfg      config.Config
	logger   *slog.Logger
	cache    *deckoutadapter.SQLiteCardCache
	defaults map[string]deckdto.WeightsInput
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	persistent, err := deckoutadapter.NewSQLiteCardCache(cfg.DBPath, clock.SystemClock{}, cfg.Cache.TTL.Duration)
	if err != nil {
		return nil, fmt.Errorf("new card cache: %w", err)
	}

	sources := deckservice.Sources{
		URLs:        map[deckdomain.DeckName]string{},
		CachePrefix: cfg.Cache.Prefix,
	}
	defaults := map[deckdomain.DeckName]deckdomain.Weights{}
	httpDefaults := map[string]deckdto.WeightsInput{}
	for _, deck := range deckdomain.Decks {
		sources.URLs[deck] = cfg.DeckURL(string(deck))
		w := cfg.DeckWeights(string(deck))
		defaults[deck] = deckdomain.Weights{Red: w.Red, Yellow: w.Yellow, Green: w.Green}
		httpDefaults[string(deck)] = deckdto.WeightsInput{Red: w.Red, Yellow: w.Yellow, Green: w.Green}
	}

	deckSvc := deckservice.NewDeckService(
		logger,
		sources,
		deckoutadapter.NewHTTPTextFetcher(cfg.FetchTimeout.Duration, cfg.Proxy.URL, logger),
		deckoutadapter.NewMemoryCardCache(),
		persistent,
		deckoutadapter.NewFileSheetReader(""),
		random.SystemSource{},
	)
	deckUC := deckusecase.NewInteractor(deckSvc)

	practiceUC := practiceusecase.NewInteractor(
		practiceservice.NewPracticeService(practiceoutadapter.NewFileStateStore(cfg.StatePath), defaults, logger),
		deckUC,
	)

	policy := deckinadapter.ProxyPolicy{AllowHost: cfg.Proxy.AllowHost, AllowPathPrefix: cfg.Proxy.AllowPathPrefix}
	return &App{
		DeckCLI:     deckinadapter.NewCLIHandler(deckUC),
		PracticeCLI: practiceinadapter.NewCLIHandler(practiceUC),
		DeckHTTP:    deckinadapter.NewHTTPHandler(deckUC, policy, &http.Client{Timeout: cfg.FetchTimeout.Duration}, httpDefaults, logger),
		cfg:         cfg,
		logger:      logger,
		cache:       persistent,
		defaults:    httpDefaults,
	}, nil
}

// DefaultWeights returns the configured weights for deck, or zero weights
// for an unknown deck.
func (a *App) DefaultWeights(deck string) deckdto.WeightsInput {
	return a.defaults[strings.ToLower(strings.TrimSpace(deck))]
}

func (a *App) Close() error {
	return a.cache.Close()
}

func RunTUI(app *App) error {
	tabs := make([]uiapp.DeckTab, 0, len(deckdomain.Decks))
	for _, d := range deckdomain.Decks {
		tabs = append(tabs, uiapp.DeckTab{Deck: string(d), Label: d.Label()})
	}
	program := tea.NewProgram(uiapp.NewModel(app.PracticeCLI, app.DeckCLI, tabs), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Router builds the gin engine serving the proxy and deck API.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.logger))
	a.DeckHTTP.Register(router)
	return router
}

// RefreshAll reloads every deck that has a source URL, bypassing the caches.
func (a *App) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, deck := range deckdomain.Decks {
		if a.cfg.DeckURL(string(deck)) == "" {
			continue
		}
		out, err := a.DeckCLI.Load(ctx, string(deck), true)
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", deck, err))
			continue
		}
		a.logger.Info("deck refreshed", "deck", deck, "cards", out.Count, "parse_errors", len(out.ParseErrors))
	}
	return errors.Join(errs...)
}

// RunServer serves HTTP on cfg.ListenAddr until ctx is cancelled. When a
// refresh schedule is configured the decks are reloaded on that cron spec.
func RunServer(ctx context.Context, app *App) error {
	if app.cfg.RefreshSchedule != "" {
		sched := scheduler.New(app.logger)
		if err := sched.Add("deck-refresh", app.cfg.RefreshSchedule, app.RefreshAll); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop(context.Background())
	}

	srv := &http.Server{
		Addr:              app.cfg.ListenAddr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
