// Package wire provides dependency injection for stubgen.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"io"
	"os"
	"sync"

	cliadapter "github.com/example/stubgen/internal/adapters/cli"
	"github.com/example/stubgen/internal/adapters/filesystem"
	"github.com/example/stubgen/internal/adapters/sqlite"
	"github.com/example/stubgen/internal/adapters/stubs"
	"github.com/example/stubgen/internal/app"
	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/db"
	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/logger"
	"github.com/example/stubgen/internal/ports/primary"
)

var (
	loadOptions config.LoadOptions

	cfg             *config.Config
	historyRepo     *sqlite.LazyHistoryRepository
	scaffoldService primary.ScaffoldService
	historyService  primary.HistoryService
	stubService     primary.StubService
	initErr         error
	once            sync.Once
)

// Configure sets where configuration is read from. It must be called before
// the first service is requested.
func Configure(opts config.LoadOptions) {
	loadOptions = opts
}

// ScaffoldService returns the singleton ScaffoldService instance.
func ScaffoldService() (primary.ScaffoldService, error) {
	once.Do(initServices)
	return scaffoldService, initErr
}

// HistoryService returns the singleton HistoryService instance.
func HistoryService() (primary.HistoryService, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	if historyService == nil {
		return nil, errors.WithHint(
			errors.New("run history is disabled"),
			"set history_enabled: true in your stubgen configuration",
		)
	}
	return historyService, nil
}

// StubService returns the singleton StubService instance.
func StubService() (primary.StubService, error) {
	once.Do(initServices)
	return stubService, initErr
}

// Close releases the history database, if one was opened.
func Close() {
	if historyRepo == nil {
		return
	}
	if err := historyRepo.Close(); err != nil {
		logger.Warnw("failed to close history database", "error", err)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cfg, initErr = config.Load(loadOptions)
	if initErr != nil {
		return
	}
	logger.Debugw("configuration loaded", "file", cfg.File, "root", cfg.Root)

	// Create adapters (secondary ports)
	projectFS := filesystem.NewProjectAdapter()
	templateSource := stubs.NewLoader(cfg.Path(cfg.StubsDirectory))
	resolver := filesystem.NewAutoloadResolver(projectFS, cfg.Root, cfg.SourceExtension, cfg.Autoload)
	prompter := cliadapter.NewConsolePrompter(os.Stdin, os.Stdout)
	watcher := filesystem.NewModelWatcher(filesystem.DefaultDebounce)

	// Create effect executor
	executor := app.NewEffectExecutor(projectFS)

	// Create services (primary ports implementation).
	// The history database is opened by the first run that records itself.
	if cfg.HistoryEnabled {
		historyRepo = sqlite.NewLazyHistoryRepository(historyOpener(cfg.Path(cfg.HistoryDatabase)))
		historyService = app.NewHistoryService(historyRepo)
		scaffoldService = app.NewScaffoldService(cfg, projectFS, templateSource, resolver, prompter, historyRepo, watcher, executor)
	} else {
		scaffoldService = app.NewScaffoldService(cfg, projectFS, templateSource, resolver, prompter, nil, watcher, executor)
	}
	stubService = app.NewStubService(templateSource, projectFS, executor)
}

func historyOpener(path string) sqlite.Opener {
	return func() (*sql.DB, error) {
		conn, err := db.Open(path)
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrap(err, "failed to open history database"),
				"check history_database, or set history_enabled: false to run without history",
			)
		}
		return conn, nil
	}
}

// ScaffoldAdapter returns a new ScaffoldAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ScaffoldAdapter() (*cliadapter.ScaffoldAdapter, error) {
	return ScaffoldAdapterWithOutput(os.Stdout)
}

// ScaffoldAdapterWithOutput returns a new ScaffoldAdapter writing to the given output.
func ScaffoldAdapterWithOutput(out io.Writer) (*cliadapter.ScaffoldAdapter, error) {
	service, err := ScaffoldService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewScaffoldAdapter(service, out), nil
}

// HistoryAdapter returns a new HistoryAdapter writing to stdout.
func HistoryAdapter() (*cliadapter.HistoryAdapter, error) {
	service, err := HistoryService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewHistoryAdapter(service, os.Stdout), nil
}

// StubsAdapter returns a new StubsAdapter writing to stdout.
func StubsAdapter() (*cliadapter.StubsAdapter, error) {
	service, err := StubService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewStubsAdapter(service, os.Stdout), nil
}
