package stock_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: implementan los puertos de repositorio sobre slices y
// maps, suficiente para ejercitar los casos de uso sin PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	movements []*entity.StockMovement
	balances  map[string]*entity.StockBalance // clave sku|location
	skus      map[string]*entity.SKU
	sessions  map[string]*entity.PhysicalCountSession
	items     []*entity.PhysicalCountItem
	headers   map[string]*entity.SaleHeader
	lines     []*entity.SaleLineItem

	sessionCand    *entity.CheckpointCandidate
	archiveCand    *entity.CheckpointCandidate
	sessionCandErr error
	archiveCandErr error
	countEventErr  error

	// sumFailures hace fallar las próximas N llamadas a SumInScope, para
	// simular errores transitorios de lectura del saldo materializado.
	sumFailures int
	sumErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances: make(map[string]*entity.StockBalance),
		skus:     make(map[string]*entity.SKU),
		sessions: make(map[string]*entity.PhysicalCountSession),
		headers:  make(map[string]*entity.SaleHeader),
	}
}

func balKey(skuID, location string) string {
	return skuID + "|" + strings.ToLower(location)
}

func (s *fakeStore) setBalance(skuID, location, quantity string) {
	q, _ := decimal.NewFromString(quantity)
	s.balances[balKey(skuID, location)] = &entity.StockBalance{
		SKUID:    skuID,
		Location: strings.ToLower(location),
		Quantity: q,
	}
}

// ── MovementRepository ────────────────────────────────────────────────────────

type fakeMovementRepo struct{ s *fakeStore }

func (r fakeMovementRepo) Append(m *entity.StockMovement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r fakeMovementRepo) ListBySKUInScope(skuID string, scope entity.LocationScope, limit, offset int) ([]*entity.StockMovement, error) {
	var all []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.SKUID != skuID {
			continue
		}
		if !scope.Contains(m.SourceLocation) && !scope.Contains(m.DestinationLocation) {
			continue
		}
		all = append(all, m)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r fakeMovementRepo) LatestCountEvent(skuID string, scope entity.LocationScope) (*entity.StockMovement, error) {
	if r.s.countEventErr != nil {
		return nil, r.s.countEventErr
	}
	var best *entity.StockMovement
	for _, m := range r.s.movements {
		if m.SKUID != skuID || m.Type != entity.MovementCountApplied {
			continue
		}
		if !scope.Contains(m.SourceLocation) && !scope.Contains(m.DestinationLocation) {
			continue
		}
		if best == nil || m.CreatedAt.After(best.CreatedAt) {
			best = m
		}
	}
	return best, nil
}

// ── BalanceRepository ─────────────────────────────────────────────────────────

type fakeBalanceRepo struct{ s *fakeStore }

func (r fakeBalanceRepo) Get(skuID, location string) (*entity.StockBalance, error) {
	if b, ok := r.s.balances[balKey(skuID, location)]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.StockBalance{
		SKUID:    skuID,
		Location: strings.ToLower(location),
		Quantity: decimal.Zero,
	}, nil
}

func (r fakeBalanceRepo) GetForUpdate(skuID, location string) (*entity.StockBalance, error) {
	return r.Get(skuID, location)
}

func (r fakeBalanceRepo) Upsert(b *entity.StockBalance) error {
	cp := *b
	cp.Location = strings.ToLower(cp.Location)
	r.s.balances[balKey(cp.SKUID, cp.Location)] = &cp
	return nil
}

func (r fakeBalanceRepo) SumInScope(skuID string, scope entity.LocationScope) (decimal.Decimal, error) {
	if r.s.sumFailures > 0 {
		r.s.sumFailures--
		return decimal.Zero, r.s.sumErr
	}
	total := decimal.Zero
	for _, b := range r.s.balances {
		if b.SKUID == skuID && scope.Contains(b.Location) {
			total = total.Add(b.Quantity)
		}
	}
	return total, nil
}

// ── SaleRepository ────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ s *fakeStore }

func (r fakeSaleRepo) CreateHeader(h *entity.SaleHeader) error {
	r.s.headers[h.ID] = h
	return nil
}

func (r fakeSaleRepo) CreateLine(l *entity.SaleLineItem) error {
	r.s.lines = append(r.s.lines, l)
	return nil
}

func (r fakeSaleRepo) GetByID(id string) (*entity.SaleHeader, []*entity.SaleLineItem, error) {
	h, ok := r.s.headers[id]
	if !ok {
		return nil, nil, nil
	}
	var lines []*entity.SaleLineItem
	for _, l := range r.s.lines {
		if l.SaleID == id {
			lines = append(lines, l)
		}
	}
	return h, lines, nil
}

func (r fakeSaleRepo) MarkCancelled(id string, at time.Time) error {
	if h, ok := r.s.headers[id]; ok {
		h.CancelledAt = &at
	}
	return nil
}

func (r fakeSaleRepo) SumActiveQuantitySince(skuID string, since *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range r.s.lines {
		if l.SKUID != skuID {
			continue
		}
		h := r.s.headers[l.SaleID]
		if h == nil || h.CancelledAt != nil {
			continue
		}
		if since != nil && !h.Date.After(*since) {
			continue
		}
		total = total.Add(l.Quantity)
	}
	return total, nil
}

// ── SKURepository ─────────────────────────────────────────────────────────────

type fakeSKURepo struct{ s *fakeStore }

func (r fakeSKURepo) Create(sku *entity.SKU) error {
	r.s.skus[sku.ID] = sku
	return nil
}

func (r fakeSKURepo) GetByID(id string) (*entity.SKU, error) {
	return r.s.skus[id], nil
}

func (r fakeSKURepo) GetByCode(code string) (*entity.SKU, error) {
	for _, sku := range r.s.skus {
		if sku.Code == code {
			return sku, nil
		}
	}
	return nil, nil
}

func (r fakeSKURepo) List(limit, offset int) ([]*entity.SKU, error) {
	var out []*entity.SKU
	for _, sku := range r.s.skus {
		out = append(out, sku)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ── CountRepository ───────────────────────────────────────────────────────────

type fakeCountRepo struct{ s *fakeStore }

func (r fakeCountRepo) CreateSession(sess *entity.PhysicalCountSession) error {
	r.s.sessions[sess.ID] = sess
	return nil
}

func (r fakeCountRepo) GetSessionByID(id string) (*entity.PhysicalCountSession, error) {
	return r.s.sessions[id], nil
}

func (r fakeCountRepo) MarkSessionFinalized(id string, at time.Time) error {
	if sess, ok := r.s.sessions[id]; ok {
		sess.Status = entity.CountSessionFinalized
		sess.EffectiveDate = at
	}
	return nil
}

func (r fakeCountRepo) CreateItem(item *entity.PhysicalCountItem) error {
	r.s.items = append(r.s.items, item)
	return nil
}

func (r fakeCountRepo) LatestSessionCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error) {
	if r.s.sessionCandErr != nil {
		return nil, r.s.sessionCandErr
	}
	return r.s.sessionCand, nil
}

func (r fakeCountRepo) LatestArchiveCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error) {
	if r.s.archiveCandErr != nil {
		return nil, r.s.archiveCandErr
	}
	return r.s.archiveCand, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta el callback directo sobre los fakes, sin transacción.
type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	balanceRepo repository.BalanceRepository,
	saleRepo repository.SaleRepository,
	countRepo repository.CountRepository,
) error) error {
	return fn(
		fakeMovementRepo{r.s},
		fakeBalanceRepo{r.s},
		fakeSaleRepo{r.s},
		fakeCountRepo{r.s},
	)
}

// ── HistoryRepository ─────────────────────────────────────────────────────────

type fakeHistoryRepo struct {
	entries []*repository.HistoryEntry
}

func (r fakeHistoryRepo) ListPage(filter repository.HistoryFilter, limit, offset int) ([]*repository.HistoryEntry, error) {
	var all []*repository.HistoryEntry
	for _, e := range r.entries {
		if filter.From != nil && e.Movement.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Movement.CreatedAt.After(*filter.To) {
			continue
		}
		if filter.Direction != "" && e.Movement.Type.Direction() != filter.Direction {
			continue
		}
		all = append(all, e)
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
