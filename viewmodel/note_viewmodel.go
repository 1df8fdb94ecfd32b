package viewmodel

import (
	"context"
	"sync"

	"priority-notes/database"
	"priority-notes/models"
)

// Repository defines the repository operations the view-model forwards to.
// Production uses services.NoteRepository.
type Repository interface {
	Insert(note models.Note)
	Update(note models.Note)
	Delete(note models.Note)
	DeleteAll()
	GetAll() *database.LiveQuery
}

// NoteViewModel exposes notes to one UI surface. Observers it hands out are
// released when their owner goes away or when the view-model is cleared, so a
// torn down screen never gets called back. Mutations already handed to the
// repository are not affected by either.
type NoteViewModel struct {
	repo     Repository
	allNotes *database.LiveQuery

	mu      sync.Mutex
	subs    map[*database.Subscription]struct{}
	cleared bool
}

func New(repo Repository) *NoteViewModel {
	return &NoteViewModel{
		repo:     repo,
		allNotes: repo.GetAll(),
		subs:     make(map[*database.Subscription]struct{}),
	}
}

func (vm *NoteViewModel) Insert(note models.Note) {
	vm.repo.Insert(note)
}

func (vm *NoteViewModel) Update(note models.Note) {
	vm.repo.Update(note)
}

func (vm *NoteViewModel) Delete(note models.Note) {
	vm.repo.Delete(note)
}

func (vm *NoteViewModel) DeleteAll() {
	vm.repo.DeleteAll()
}

// AllNotes returns the live, priority-ordered note list
func (vm *NoteViewModel) AllNotes() *database.LiveQuery {
	return vm.allNotes
}

// Observe subscribes fn to the note list for as long as owner is alive. The
// returned subscription can also be released early with Unsubscribe.
func (vm *NoteViewModel) Observe(owner context.Context, fn func([]models.Note)) *database.Subscription {
	sub := vm.allNotes.Subscribe(fn)

	vm.mu.Lock()
	if vm.cleared {
		vm.mu.Unlock()
		sub.Unsubscribe()
		return sub
	}
	vm.subs[sub] = struct{}{}
	vm.mu.Unlock()

	go func() {
		select {
		case <-owner.Done():
			sub.Unsubscribe()
		case <-sub.Done():
		}
		vm.mu.Lock()
		delete(vm.subs, sub)
		vm.mu.Unlock()
	}()

	return sub
}

// Find returns the note with id from the current list, or nil
func (vm *NoteViewModel) Find(ctx context.Context, id int64) (*models.Note, error) {
	notes, err := vm.allNotes.Current(ctx)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == id {
			return &notes[i], nil
		}
	}
	return nil, nil
}

// Observers returns the number of live subscriptions handed out
func (vm *NoteViewModel) Observers() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.subs)
}

// Clear ends the view-model's lifetime and releases every observer
func (vm *NoteViewModel) Clear() {
	vm.mu.Lock()
	vm.cleared = true
	subs := make([]*database.Subscription, 0, len(vm.subs))
	for sub := range vm.subs {
		subs = append(subs, sub)
	}
	vm.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
