package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iamaugusto/contAi/internal/core"
)

// fakeStore is an in-memory Store for session tests.
type fakeStore struct {
	mu      sync.Mutex
	txs     []core.Transaction
	listErr error
	delErr  error
	deleted []int64
}

func (f *fakeStore) List(ctx context.Context) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]core.Transaction, len(f.txs))
	copy(out, f.txs)
	return out, nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	for i, tx := range f.txs {
		if tx.ID == id {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func newSessionWith(t *testing.T, txs []core.Transaction) (*Session, *fakeStore) {
	t.Helper()
	store := &fakeStore{txs: txs}
	s := NewSession(store)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return s, store
}

func TestSessionSearchResetsPage(t *testing.T) {
	s, _ := newSessionWith(t, sameMonthList(25))
	s.SetPage(3)
	if s.View().CurrentPage != 3 {
		t.Fatal("setup: expected page 3")
	}
	s.SetSearch("item")
	if s.Page() != 1 {
		t.Fatalf("search change must reset to page 1, got %d", s.Page())
	}
	// Setting the same term again keeps the page.
	s.SetPage(2)
	s.SetSearch("item")
	if s.Page() != 2 {
		t.Fatalf("unchanged term must keep the page, got %d", s.Page())
	}
}

func TestSessionDeleteClampsLastPage(t *testing.T) {
	// 21 records -> 3 pages with a single record on page 3.
	s, _ := newSessionWith(t, sameMonthList(21))
	s.SetPage(3)

	v := s.View()
	if v.TotalPages != 3 || len(v.Groups[0].Transactions) != 1 {
		t.Fatalf("setup: total=%d", v.TotalPages)
	}
	lastID := v.Groups[0].Transactions[0].ID

	if err := s.Delete(context.Background(), lastID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v = s.View()
	if v.TotalPages != 2 || v.CurrentPage != 2 {
		t.Fatalf("after delete: current=%d total=%d", v.CurrentPage, v.TotalPages)
	}
	if got := len(v.Groups[0].Transactions); got != PageSize {
		t.Fatalf("page 2 should render %d records, got %d", PageSize, got)
	}
	if v.FilteredCount != 20 {
		t.Fatalf("filtered count = %d", v.FilteredCount)
	}
}

func TestSessionDeleteClampsAgainstFilteredSet(t *testing.T) {
	// 11 matches on "item" -> 2 pages; deleting one match shrinks to 1 page
	// even though unrelated records remain.
	txs := sameMonthList(11)
	txs = append(txs, tx(100, core.NewDate(2024, 5, 1), "unrelated", "1.00", core.Credit))
	s, _ := newSessionWith(t, txs)
	s.SetSearch("item")
	s.SetPage(2)

	if v := s.View(); v.TotalPages != 2 || v.CurrentPage != 2 {
		t.Fatalf("setup: current=%d total=%d", v.CurrentPage, v.TotalPages)
	}
	if err := s.Delete(context.Background(), 11); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v := s.View()
	if v.TotalPages != 1 || v.CurrentPage != 1 {
		t.Fatalf("after delete: current=%d total=%d", v.CurrentPage, v.TotalPages)
	}
	if v.FilteredCount != 10 {
		t.Fatalf("filtered count = %d", v.FilteredCount)
	}
}

func TestSessionDeleteNotFoundIsAlreadyRemoved(t *testing.T) {
	s, store := newSessionWith(t, sampleList())
	// Remove remotely behind the session's back, as a racing delete would.
	store.mu.Lock()
	store.txs = store.txs[1:]
	store.mu.Unlock()

	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("NotFound must be treated as already removed, got %v", err)
	}
	if s.View().FilteredCount != 2 {
		t.Fatalf("local record should still be dropped, count = %d", s.View().FilteredCount)
	}

	// Deleting an id the session no longer holds is a no-op.
	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if s.View().FilteredCount != 2 {
		t.Fatalf("count changed on no-op delete: %d", s.View().FilteredCount)
	}
}

func TestSessionDeleteFailureLeavesStateIntact(t *testing.T) {
	s, store := newSessionWith(t, sampleList())
	boom := errors.New("store down")
	store.mu.Lock()
	store.delErr = boom
	store.mu.Unlock()

	if err := s.Delete(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if s.View().FilteredCount != 3 {
		t.Fatalf("failed delete must not touch the list, count = %d", s.View().FilteredCount)
	}
}

func TestSessionRefreshFailureLeavesStateIntact(t *testing.T) {
	s, store := newSessionWith(t, sampleList())
	store.mu.Lock()
	store.listErr = errors.New("store down")
	store.mu.Unlock()

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if s.View().FilteredCount != 3 {
		t.Fatalf("failed refresh must not touch the list, count = %d", s.View().FilteredCount)
	}
}

// blockingStore parks every List call until the test releases it, so fetch
// responses can be resolved out of order.
type blockingStore struct {
	mu    sync.Mutex
	calls []chan []core.Transaction
}

func (b *blockingStore) List(ctx context.Context) ([]core.Transaction, error) {
	ch := make(chan []core.Transaction, 1)
	b.mu.Lock()
	b.calls = append(b.calls, ch)
	b.mu.Unlock()
	select {
	case txs := <-ch:
		return txs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingStore) DeleteByID(ctx context.Context, id int64) error { return nil }

func (b *blockingStore) waitForCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		got := len(b.calls)
		b.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d List calls", n)
}

func TestSessionStaleFetchDiscarded(t *testing.T) {
	store := &blockingStore{}
	s := NewSession(store)

	old := []core.Transaction{tx(1, core.NewDate(2024, 1, 1), "old", "1.00", core.Debit)}
	fresh := []core.Transaction{
		tx(2, core.NewDate(2024, 2, 1), "fresh", "2.00", core.Credit),
		tx(3, core.NewDate(2024, 2, 2), "fresh too", "3.00", core.Credit),
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.Refresh(context.Background()) // generation 1
	}()
	store.waitForCalls(t, 1)
	go func() {
		defer wg.Done()
		_ = s.Refresh(context.Background()) // generation 2
	}()
	store.waitForCalls(t, 2)

	// The newer request resolves first; the older response must not
	// overwrite it when it finally arrives.
	store.calls[1] <- fresh
	for i := 0; i < 2000 && s.View().FilteredCount != 2; i++ {
		time.Sleep(time.Millisecond)
	}
	if s.View().FilteredCount != 2 {
		t.Fatal("newer fetch never applied")
	}
	store.calls[0] <- old
	wg.Wait()

	v := s.View()
	if v.FilteredCount != 2 {
		t.Fatalf("stale fetch overwrote newer data, count = %d", v.FilteredCount)
	}
	if v.Groups[0].Transactions[0].Description != "fresh" {
		t.Fatalf("unexpected record: %+v", v.Groups[0].Transactions[0])
	}
}

func TestSessionConcurrentDeletesAreIndependent(t *testing.T) {
	list := make([]core.Transaction, 0, 12)
	for i := 0; i < 12; i++ {
		list = append(list, tx(int64(i+1), core.NewDate(2024, 6, 1+i), fmt.Sprintf("row %d", i), "5.00", core.Debit))
	}
	s, _ := newSessionWith(t, list)

	var wg sync.WaitGroup
	for _, id := range []int64{3, 7, 11} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := s.Delete(context.Background(), id); err != nil {
				t.Errorf("delete %d: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if got := s.View().FilteredCount; got != 9 {
		t.Fatalf("expected 9 records left, got %d", got)
	}
}
