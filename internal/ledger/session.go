package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/iamaugusto/contAi/internal/core"
)

// Store is the remote transaction store a session refreshes from and deletes
// through. The session keeps the only local copy of the list; the store is
// never used as a cache.
type Store interface {
	// List fetches the full transaction list, date ascending.
	List(ctx context.Context) ([]core.Transaction, error)
	// DeleteByID removes one transaction. Reports core.ErrNotFound when the
	// store had no matching record.
	DeleteByID(ctx context.Context, id int64) error
}

// Session owns the {list, search term, page} state the engine is a pure
// function of, and applies the two stateful reactions the contract requires:
// page clamping after a delete shrinks the set, and discarding stale fetch
// responses.
type Session struct {
	store Store

	mu     sync.Mutex
	all    []core.Transaction
	search string
	page   int

	issued  uint64 // generation handed to the most recent fetch
	applied uint64 // generation of the last fetch response applied
}

func NewSession(store Store) *Session {
	return &Session{store: store, page: 1}
}

// Refresh fetches the full list from the store. When refreshes overlap, the
// latest resolved response wins: a response from a superseded refresh is
// discarded rather than overwriting newer data.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	txs, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.applied {
		// A newer refresh already landed.
		return nil
	}
	s.applied = gen
	s.all = txs
	s.page = 1
	return nil
}

// SetSearch updates the free-text term and snaps back to the first page, so
// the caller never looks at a page that only existed under the old term.
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if term != s.search {
		s.search = term
		s.page = 1
	}
}

// SetPage records the requested page. Clamping into the valid range happens
// when the view is built.
func (s *Session) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// Delete removes a transaction remotely and, only once the store confirms,
// locally. A store NotFound counts as already removed (two deletes may race)
// and still drops the local record. On any other store error the local state
// is left untouched.
func (s *Session) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]core.Transaction, 0, len(s.all))
	for _, tx := range s.all {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	s.all = kept

	// The removed record may shrink the filtered set below the current page.
	totalPages := TotalPages(len(Filter(s.all, s.search)))
	if s.page > totalPages {
		s.page = totalPages
	}
	return nil
}

// View builds the paged, grouped view for the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildView(s.all, s.search, s.page)
}

// Search returns the active search term.
func (s *Session) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// Page returns the currently requested page.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}
