package app

import (
	"log/slog"

	"priority-notes/database"
	"priority-notes/services"
	"priority-notes/viewmodel"
	"priority-notes/worker"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Store     *database.NoteStore
	Worker    *worker.Worker
	Repo      *services.NoteRepository
	ViewModel *viewmodel.NoteViewModel
	Watcher   *database.Watcher
	Logger    *slog.Logger
}

// New wires the repository and view-model on top of store and w. The worker
// is expected to be started by the caller. watcher may be nil.
func New(store *database.NoteStore, w *worker.Worker, watcher *database.Watcher, logger *slog.Logger) *App {
	repo := services.NewNoteRepository(store, w)
	return &App{
		Store:     store,
		Worker:    w,
		Repo:      repo,
		ViewModel: viewmodel.New(repo),
		Watcher:   watcher,
		Logger:    logger,
	}
}
