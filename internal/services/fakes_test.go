package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"prohealth/internal/models"
	"prohealth/pkg/cache"
	"prohealth/pkg/logger"
)

func testLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return log
}

func testShop() *models.Shop {
	return &models.Shop{Domain: "demo.myshopify.com", AccessToken: "shpat_test", Active: true}
}

// memCache is an in-memory CacheService for tests.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[key]
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(data, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

func (m *memCache) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; ok {
		return false, nil
	}
	m.items[key] = data
	return true, nil
}

func (m *memCache) Lock(_ context.Context, key string, _ time.Duration) (*cache.DistributedLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lockKey := "lock:" + key
	if _, ok := m.items[lockKey]; ok {
		return nil, cache.ErrNotLocked
	}
	m.items[lockKey] = []byte("held")
	return &cache.DistributedLock{Key: lockKey, Token: "held"}, nil
}

func (m *memCache) Unlock(_ context.Context, lock *cache.DistributedLock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, lock.Key)
	return nil
}

// fakePartnerRepo keeps partner records in memory, returning copies so
// callers see fresh reads the way the metaobject store behaves.
type fakePartnerRepo struct {
	mu        sync.Mutex
	seq       int
	partners  map[string]models.Partner
	failNext  error
	updateErr error
}

func newFakePartnerRepo(partners ...*models.Partner) *fakePartnerRepo {
	repo := &fakePartnerRepo{partners: make(map[string]models.Partner)}
	for _, p := range partners {
		repo.seq++
		if p.ID == "" {
			p.ID = fmt.Sprintf("gid://shopify/Metaobject/%d", repo.seq)
		}
		repo.partners[p.ID] = *p
	}
	return repo
}

func (r *fakePartnerRepo) Create(_ context.Context, _ *models.Shop, partner *models.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.seq++
	partner.ID = fmt.Sprintf("gid://shopify/Metaobject/%d", r.seq)
	r.partners[partner.ID] = *partner
	return nil
}

func (r *fakePartnerRepo) GetByID(_ context.Context, _ *models.Shop, id string) (*models.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[id]
	if !ok {
		return nil, fmt.Errorf("partner not found")
	}
	copied := p
	return &copied, nil
}

func (r *fakePartnerRepo) List(_ context.Context, _ *models.Shop) ([]*models.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		copied := p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakePartnerRepo) Update(_ context.Context, _ *models.Shop, partner *models.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.partners[partner.ID]; !ok {
		return fmt.Errorf("partner not found")
	}
	r.partners[partner.ID] = *partner
	return nil
}

func (r *fakePartnerRepo) Delete(_ context.Context, _ *models.Shop, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.partners, id)
	return nil
}

func (r *fakePartnerRepo) FindByCode(ctx context.Context, shop *models.Shop, code string) (*models.Partner, error) {
	partners, _ := r.List(ctx, shop)
	for _, p := range partners {
		if p.Active && p.MatchesCode(code) {
			return p, nil
		}
	}
	return nil, nil
}

// fakeDepositRepo mimics the ledger, including the unique succeeded entry
// per shop, order and partner.
type fakeDepositRepo struct {
	mu      sync.Mutex
	records []*models.DepositRecord
}

func (r *fakeDepositRepo) Record(_ context.Context, record *models.DepositRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.Status == models.DepositStatusSucceeded {
		for _, existing := range r.records {
			if existing.Status == models.DepositStatusSucceeded &&
				existing.ShopDomain == record.ShopDomain &&
				existing.OrderID == record.OrderID &&
				existing.PartnerID == record.PartnerID {
				return fmt.Errorf("deposit already recorded for order %d", record.OrderID)
			}
		}
	}
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeDepositRepo) FindSucceeded(_ context.Context, shopDomain string, orderID int64, partnerID string) (*models.DepositRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.Status == models.DepositStatusSucceeded &&
			record.ShopDomain == shopDomain &&
			record.OrderID == orderID &&
			record.PartnerID == partnerID {
			return record, nil
		}
	}
	return nil, nil
}

func (r *fakeDepositRepo) ListByPartner(_ context.Context, shopDomain, partnerID string) ([]*models.DepositRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DepositRecord
	for _, record := range r.records {
		if record.ShopDomain == shopDomain && record.PartnerID == partnerID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeDepositRepo) ListFailed(_ context.Context, shopDomain string) ([]*models.DepositRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DepositRecord
	for _, record := range r.records {
		if record.ShopDomain == shopDomain && record.Status == models.DepositStatusFailed {
			out = append(out, record)
		}
	}
	return out, nil
}

type depositCall struct {
	customerID string
	amount     float64
	currency   string
}

type fakeCreditGateway struct {
	mu       sync.Mutex
	deposits []depositCall
	err      error
}

func (g *fakeCreditGateway) Deposit(_ context.Context, _ *models.Shop, customerID string, amount float64, currency string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.deposits = append(g.deposits, depositCall{customerID: customerID, amount: amount, currency: currency})
	return nil
}

type fakeCustomerGateway struct {
	byEmail map[string]string
}

func (g *fakeCustomerGateway) FindIDByEmail(_ context.Context, _ *models.Shop, email string) (string, error) {
	return g.byEmail[email], nil
}

// staticSettings implements SettingsService with fixed values.
type staticSettings struct {
	settings models.ProgramSettings
}

func (s *staticSettings) Get(_ context.Context, _ *models.Shop) (*models.ProgramSettings, error) {
	copied := s.settings
	return &copied, nil
}

func (s *staticSettings) Update(_ context.Context, _ *models.Shop, _ *models.UpdateSettingsRequest) (*models.ProgramSettings, error) {
	return nil, fmt.Errorf("not supported")
}

// fakeDiscountGateway tracks created discounts by ID.
type fakeDiscountGateway struct {
	mu        sync.Mutex
	seq       int
	discounts map[string]DiscountSpec
	takenCode map[string]bool
	createErr error
}

func newFakeDiscountGateway() *fakeDiscountGateway {
	return &fakeDiscountGateway{
		discounts: make(map[string]DiscountSpec),
		takenCode: make(map[string]bool),
	}
}

func (g *fakeDiscountGateway) Create(_ context.Context, _ *models.Shop, spec DiscountSpec) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return "", g.createErr
	}
	g.seq++
	id := fmt.Sprintf("gid://shopify/DiscountCodeNode/%d", g.seq)
	g.discounts[id] = spec
	g.takenCode[spec.Code] = true
	return id, nil
}

func (g *fakeDiscountGateway) Update(_ context.Context, _ *models.Shop, id string, spec DiscountSpec) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.discounts[id]; !ok {
		return fmt.Errorf("discount not found")
	}
	g.discounts[id] = spec
	return nil
}

func (g *fakeDiscountGateway) Delete(_ context.Context, _ *models.Shop, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if spec, ok := g.discounts[id]; ok {
		delete(g.takenCode, spec.Code)
	}
	delete(g.discounts, id)
	return nil
}

func (g *fakeDiscountGateway) SetActive(_ context.Context, _ *models.Shop, id string, _ bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.discounts[id]; !ok {
		return fmt.Errorf("discount not found")
	}
	return nil
}

func (g *fakeDiscountGateway) Exists(_ context.Context, _ *models.Shop, id string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.discounts[id]
	return ok, nil
}

func (g *fakeDiscountGateway) CodeInUse(_ context.Context, _ *models.Shop, code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.takenCode[code], nil
}

// fakeSignupRepo holds a pending queue keyed by customer ID.
type fakeSignupRepo struct {
	mu       sync.Mutex
	pending  map[string]*models.PendingSignup
	accepted []string
	rejected []string
}

func newFakeSignupRepo(signups ...*models.PendingSignup) *fakeSignupRepo {
	repo := &fakeSignupRepo{pending: make(map[string]*models.PendingSignup)}
	for _, s := range signups {
		repo.pending[s.CustomerID] = s
	}
	return repo
}

func (r *fakeSignupRepo) List(_ context.Context, _ *models.Shop) ([]*models.PendingSignup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PendingSignup, 0, len(r.pending))
	for _, s := range r.pending {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSignupRepo) Count(ctx context.Context, shop *models.Shop) (int, error) {
	signups, err := r.List(ctx, shop)
	return len(signups), err
}

func (r *fakeSignupRepo) Get(_ context.Context, _ *models.Shop, customerID string) (*models.PendingSignup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.pending[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %s has no pending signup", customerID)
	}
	return s, nil
}

func (r *fakeSignupRepo) MarkAccepted(_ context.Context, _ *models.Shop, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, customerID)
	r.accepted = append(r.accepted, customerID)
	return nil
}

func (r *fakeSignupRepo) MarkRejected(_ context.Context, _ *models.Shop, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[customerID]; !ok {
		return fmt.Errorf("customer %s has no pending signup", customerID)
	}
	delete(r.pending, customerID)
	r.rejected = append(r.rejected, customerID)
	return nil
}

// fakeSettingsRepo stores settings in memory.
type fakeSettingsRepo struct {
	stored *models.ProgramSettings
	err    error
}

func (r *fakeSettingsRepo) Get(_ context.Context, _ *models.Shop) (*models.ProgramSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.stored == nil {
		return nil, nil
	}
	copied := *r.stored
	return &copied, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, _ *models.Shop, settings *models.ProgramSettings) error {
	if r.err != nil {
		return r.err
	}
	copied := *settings
	r.stored = &copied
	return nil
}
