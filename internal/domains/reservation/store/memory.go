package store

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	boothModel "fair/internal/domains/booth/model"
	trxModel "fair/internal/domains/transaction/model"
)

type memoryState struct {
	booths       map[string]boothModel.Booth
	transactions map[string]trxModel.Transaction
	items        map[string][]trxModel.LineItem
}

func (s memoryState) clone() memoryState {
	items := make(map[string][]trxModel.LineItem, len(s.items))
	for id, list := range s.items {
		items[id] = slices.Clone(list)
	}

	booths := make(map[string]boothModel.Booth, len(s.booths))
	for id, booth := range s.booths {
		booths[id] = cloneBooth(booth)
	}

	return memoryState{
		booths:       booths,
		transactions: maps.Clone(s.transactions),
		items:        items,
	}
}

func cloneBooth(booth boothModel.Booth) boothModel.Booth {
	if booth.BookedBy != nil {
		holder := *booth.BookedBy
		booth.BookedBy = &holder
	}

	if booth.Bookdate != nil {
		at := *booth.Bookdate
		booth.Bookdate = &at
	}

	if booth.UpdatedBy != nil {
		by := *booth.UpdatedBy
		booth.UpdatedBy = &by
	}

	return booth
}

// Memory keeps everything in process. A unit of work runs on a private copy
// of the state under one mutex and replaces the state only when it succeeds,
// so readers never observe a half-applied transition.
type Memory struct {
	mu    sync.Mutex
	state memoryState
}

func NewMemory(booths ...boothModel.Booth) *Memory {
	m := &Memory{
		state: memoryState{
			booths:       map[string]boothModel.Booth{},
			transactions: map[string]trxModel.Transaction{},
			items:        map[string][]trxModel.LineItem{},
		},
	}

	for _, booth := range booths {
		m.state.booths[booth.ID] = cloneBooth(booth)
	}

	return m
}

func (m *Memory) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := &memoryTx{state: m.state.clone()}

	if err := fn(ctx, work); err != nil {
		return err
	}

	m.state = work.state

	return nil
}

func (m *Memory) ListExpirable(_ context.Context, now time.Time, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidates := []trxModel.Transaction{}

	for _, trx := range m.state.transactions {
		if trx.IsExpirable(now) {
			candidates = append(candidates, trx)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ExpirationDate().Before(candidates[j].ExpirationDate())
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ids := make([]string, len(candidates))
	for i, trx := range candidates {
		ids[i] = trx.ID
	}

	return ids, nil
}

// Booth returns a copy of the stored booth.
func (m *Memory) Booth(id string) (boothModel.Booth, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booth, ok := m.state.booths[id]

	return cloneBooth(booth), ok
}

// Booths returns copies of every stored booth ordered by id.
func (m *Memory) Booths() []boothModel.Booth {
	m.mu.Lock()
	defer m.mu.Unlock()

	booths := make([]boothModel.Booth, 0, len(m.state.booths))
	for _, id := range slices.Sorted(maps.Keys(m.state.booths)) {
		booths = append(booths, cloneBooth(m.state.booths[id]))
	}

	return booths
}

// Transaction returns the stored transaction and its line items.
func (m *Memory) Transaction(id string) (trxModel.Transaction, []trxModel.LineItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trx, ok := m.state.transactions[id]

	return trx, slices.Clone(m.state.items[id]), ok
}

// Transactions returns every stored transaction ordered by id.
func (m *Memory) Transactions() []trxModel.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	trxs := make([]trxModel.Transaction, 0, len(m.state.transactions))
	for _, id := range slices.Sorted(maps.Keys(m.state.transactions)) {
		trxs = append(trxs, m.state.transactions[id])
	}

	return trxs
}

type memoryTx struct {
	state memoryState
}

func (t *memoryTx) LockBooths(_ context.Context, ids []string) ([]boothModel.Booth, error) {
	booths := []boothModel.Booth{}

	for _, id := range slices.Sorted(slices.Values(ids)) {
		if booth, ok := t.state.booths[id]; ok {
			booths = append(booths, cloneBooth(booth))
		}
	}

	return booths, nil
}

func (t *memoryTx) ReserveBooths(_ context.Context, ids []string, holder string, at time.Time) ([]string, error) {
	reserved := make([]string, 0, len(ids))

	for _, id := range ids {
		booth, ok := t.state.booths[id]
		if !ok || !booth.IsAvailable() {
			continue
		}

		booth.Reserve(holder, at)
		t.state.booths[id] = booth
		reserved = append(reserved, id)
	}

	return reserved, nil
}

func (t *memoryTx) BookBooths(_ context.Context, ids []string, updatedBy string, at time.Time) error {
	for _, id := range ids {
		booth, ok := t.state.booths[id]
		if !ok || booth.Status != boothModel.StatusReserved {
			continue
		}

		booth.Book(updatedBy, at)
		t.state.booths[id] = booth
	}

	return nil
}

func (t *memoryTx) ReleaseBooths(_ context.Context, ids []string, holder, updatedBy string, at time.Time) error {
	for _, id := range ids {
		booth, ok := t.state.booths[id]
		if !ok || !booth.Status.Held() || booth.BookedBy == nil || *booth.BookedBy != holder {
			continue
		}

		booth.Release(updatedBy, at)
		t.state.booths[id] = booth
	}

	return nil
}

func (t *memoryTx) InsertTransaction(_ context.Context, trx trxModel.Transaction, items []trxModel.LineItem) error {
	if _, exists := t.state.transactions[trx.ID]; exists {
		return ErrStaleTransaction
	}

	t.state.transactions[trx.ID] = trx
	t.state.items[trx.ID] = slices.Clone(items)

	return nil
}

func (t *memoryTx) LockTransaction(_ context.Context, id string) (trxModel.Transaction, error) {
	return t.state.transactions[id], nil
}

func (t *memoryTx) LineItems(_ context.Context, transactionID string) ([]trxModel.LineItem, error) {
	items := slices.Clone(t.state.items[transactionID])

	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	return items, nil
}

func (t *memoryTx) SaveTransaction(_ context.Context, trx trxModel.Transaction) error {
	stored, ok := t.state.transactions[trx.ID]
	if !ok || stored.Version != trx.Version-1 {
		return ErrStaleTransaction
	}

	t.state.transactions[trx.ID] = trx

	return nil
}
