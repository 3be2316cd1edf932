package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	domain "github.com/quangdm/freshcart-api/internal/entity"
)

// memStore is a minimal in-memory OrderStore + ledger with real
// transactional semantics: order writes are staged until commit, stock
// decrements apply atomically and are compensated on rollback. Not
// production-grade; just enough to exercise the coordinator.
type memStore struct {
	mu     sync.Mutex
	skus   map[string]*domain.SKU
	orders map[string]*domain.Order
	lines  map[string][]domain.OrderLine

	// forceConflicts makes the next N conditional decrements report a lost
	// race regardless of the observed stock.
	forceConflicts int
}

func newMemStore() *memStore {
	return &memStore{
		skus:   map[string]*domain.SKU{},
		orders: map[string]*domain.Order{},
		lines:  map[string][]domain.OrderLine{},
	}
}

func (s *memStore) addSKU(id string, priceCents int64, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skus[id] = &domain.SKU{ID: id, Name: "sku " + id, PriceCents: priceCents, Stock: stock}
}

func (s *memStore) sku(id string) domain.SKU {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.skus[id]
}

func (s *memStore) setPrice(id string, priceCents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skus[id].PriceCents = priceCents
}

func (s *memStore) addOrder(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := o
	s.orders[o.ID] = &cp
}

func (s *memStore) addLine(l domain.OrderLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[l.OrderID] = append(s.lines[l.OrderID], l)
}

func (s *memStore) orderStatus(id string) domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type appliedDecrement struct {
	skuID string
	qty   int
}

type memTx struct {
	store   *memStore
	orders  []domain.Order
	lines   []domain.OrderLine
	totals  map[string][2]int64 // orderID -> {amountCents, totalCount}
	applied []appliedDecrement
}

func (s *memStore) RunInTx(_ context.Context, fn func(tx CommitTx) error) error {
	tx := &memTx{store: s, totals: map[string][2]int64{}}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	tx.commit()
	return nil
}

func (t *memTx) rollback() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, d := range t.applied {
		sku := t.store.skus[d.skuID]
		sku.Stock += d.qty
		sku.Sales -= d.qty
	}
}

func (t *memTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := range t.orders {
		o := t.orders[i]
		if tot, ok := t.totals[o.ID]; ok {
			o.AmountCents = tot[0]
			o.TotalCount = int(tot[1])
		}
		t.store.orders[o.ID] = &o
	}
	for _, l := range t.lines {
		t.store.lines[l.OrderID] = append(t.store.lines[l.OrderID], l)
	}
}

func (t *memTx) GetSKU(_ context.Context, skuID string) (*domain.SKU, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	sku, ok := t.store.skus[skuID]
	if !ok {
		return nil, nil
	}
	cp := *sku
	return &cp, nil
}

func (t *memTx) DecrementStock(_ context.Context, skuID string, observedStock, qty int) (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.forceConflicts > 0 {
		t.store.forceConflicts--
		return false, nil
	}
	sku, ok := t.store.skus[skuID]
	if !ok || sku.Stock != observedStock {
		return false, nil
	}
	sku.Stock = observedStock - qty
	sku.Sales += qty
	t.applied = append(t.applied, appliedDecrement{skuID: skuID, qty: qty})
	return true, nil
}

func (t *memTx) InsertOrder(_ context.Context, o *domain.Order) error {
	t.orders = append(t.orders, *o)
	return nil
}

func (t *memTx) InsertLine(_ context.Context, l *domain.OrderLine) error {
	t.lines = append(t.lines, *l)
	return nil
}

func (t *memTx) UpdateTotals(_ context.Context, orderID string, amountCents int64, totalCount int) error {
	t.totals[orderID] = [2]int64{amountCents, int64(totalCount)}
	return nil
}

func (s *memStore) GetForUser(_ context.Context, orderID, userID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) ListForUser(_ context.Context, userID string, page, perPage int) ([]domain.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (s *memStore) GetLines(_ context.Context, orderID string) ([]domain.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OrderLine(nil), s.lines[orderID]...), nil
}

func (s *memStore) MarkPaid(_ context.Context, orderID, tradeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != domain.StatusUnpaid {
		return false, nil
	}
	o.Status = domain.StatusUncommented
	o.TradeID = tradeID
	return true, nil
}

func (s *memStore) UpdateStatusIf(_ context.Context, orderID string, from, to domain.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (s *memStore) SaveLineComment(_ context.Context, orderID, skuID, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.lines[orderID]
	for i := range lines {
		if lines[i].SKUID == skuID {
			lines[i].Comment = comment
		}
	}
	return nil
}

var _ OrderStore = (*memStore)(nil)

// ledgerView exposes the store's SKU reads outside a transaction, for the
// preview use case.
type ledgerView struct{ store *memStore }

func (v ledgerView) GetSKU(_ context.Context, skuID string) (*domain.SKU, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	sku, ok := v.store.skus[skuID]
	if !ok {
		return nil, nil
	}
	cp := *sku
	return &cp, nil
}

func (v ledgerView) DecrementStock(context.Context, string, int, int) (bool, error) {
	return false, errors.New("not supported outside a transaction")
}

type memAddresses struct {
	byID map[string]*domain.Address
}

func newMemAddresses() *memAddresses { return &memAddresses{byID: map[string]*domain.Address{}} }

func (a *memAddresses) add(id, userID string) {
	a.byID[id] = &domain.Address{ID: id, UserID: userID}
}

func (a *memAddresses) GetForUser(_ context.Context, addressID, userID string) (*domain.Address, error) {
	addr, ok := a.byID[addressID]
	if !ok || addr.UserID != userID {
		return nil, nil
	}
	return addr, nil
}

type memCart struct {
	mu        sync.Mutex
	items     map[string]map[string]int // userID -> skuID -> count
	failClear bool
	cleared   [][]string
}

func newMemCart() *memCart { return &memCart{items: map[string]map[string]int{}} }

func (c *memCart) set(userID, skuID string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items[userID] == nil {
		c.items[userID] = map[string]int{}
	}
	c.items[userID][skuID] = count
}

func (c *memCart) Quantities(_ context.Context, userID string) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]int{}
	for k, v := range c.items[userID] {
		out[k] = v
	}
	return out, nil
}

func (c *memCart) SetQuantity(_ context.Context, userID, skuID string, count int) error {
	c.set(userID, skuID, count)
	return nil
}

func (c *memCart) Remove(_ context.Context, userID, skuID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items[userID], skuID)
	return nil
}

func (c *memCart) RemoveCommitted(_ context.Context, userID string, skuIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failClear {
		return errors.New("redis gone")
	}
	for _, id := range skuIDs {
		delete(c.items[userID], id)
	}
	c.cleared = append(c.cleared, skuIDs)
	return nil
}

type memTasks struct {
	mu        sync.Mutex
	published []OrderCommittedMsg
	fail      bool
}

func (q *memTasks) PublishCommitted(_ context.Context, msg OrderCommittedMsg) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail {
		return errors.New("broker down")
	}
	q.published = append(q.published, msg)
	return nil
}

type memEvents struct {
	mu        sync.Mutex
	published []OrderStatusChangedMsg
}

func (e *memEvents) PublishStatusChanged(_ context.Context, msg OrderStatusChangedMsg) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, msg)
	return nil
}

type memCache struct {
	mu          sync.Mutex
	invalidated []string
	statuses    map[string]string
}

func newMemCache() *memCache { return &memCache{statuses: map[string]string{}} }

func (c *memCache) InvalidateDetail(_ context.Context, skuID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, skuID)
	return nil
}

func (c *memCache) SetOrderStatus(_ context.Context, orderID string, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[orderID] = status
	return nil
}

// scriptedGateway replays a fixed sequence of replies; the last one repeats.
type scriptedGateway struct {
	mu      sync.Mutex
	replies []GatewayReply
	err     error
	calls   int
}

func (g *scriptedGateway) CreatePaymentIntent(_ context.Context, orderID string, _ int64, _ string) (string, error) {
	return "https://gateway.example.com/pay?out_trade_no=" + orderID, nil
}

func (g *scriptedGateway) QueryStatus(context.Context, string) (GatewayReply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return GatewayReply{}, g.err
	}
	i := g.calls
	g.calls++
	if i >= len(g.replies) {
		i = len(g.replies) - 1
	}
	return g.replies[i], nil
}
