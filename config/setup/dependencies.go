package setup

import (
	"log/slog"

	"priority-notes/app"
	"priority-notes/database"
	"priority-notes/worker"
)

// InitDatabase opens the process-wide database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.Instance(dbPath)
	if err != nil {
		return nil, err
	}

	logger.Info("database initialized", "path", db.Path())
	return db, nil
}

// InitApp initializes the application with all dependencies. With watch set,
// writes to the database file by other processes refresh the live note list.
func InitApp(db *database.DB, watch bool, logger *slog.Logger) *app.App {
	store := database.NewNoteStore(db, logger, func(err error) {
		logger.Error("note list refresh failed", "error", err)
	})

	// Failures are already logged by the worker; nothing is retried
	bg := worker.New(logger, nil)
	bg.Start()
	logger.Info("background worker started")

	var watcher *database.Watcher
	if watch {
		w, err := database.NewWatcher(db.Path(), store.Live(), logger)
		if err != nil {
			logger.Warn("database watcher disabled", "error", err)
		} else {
			watcher = w
			logger.Info("database watcher started", "path", db.Path())
		}
	}

	application := app.New(store, bg, watcher, logger)
	logger.Info("application initialized with dependency injection")

	return application
}

// Shutdown performs graceful shutdown of all services. Queued mutations are
// applied before the database is closed.
func Shutdown(application *app.App, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application != nil {
		application.ViewModel.Clear()

		application.Worker.Stop()
		logger.Info("background worker stopped")

		if application.Watcher != nil {
			application.Watcher.Close()
		}
		application.Store.Close()
	}

	if err := database.CloseInstance(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database closed")
}
