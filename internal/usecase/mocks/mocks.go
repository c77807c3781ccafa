package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/usecase"
)

// MockEntryRepository is an in-memory EntryRepository. Behavior can be
// overridden per test through the *Func fields.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry // keyed by TokenID

	CreateFunc                  func(ctx context.Context, entry *domain.Entry) error
	GetOpenByTokenFunc          func(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error)
	GetOpenByTokenForUpdateFunc func(ctx context.Context, tx usecase.Transaction, class domain.VehicleClass, tokenID string) (*domain.Entry, error)
	CloseFunc                   func(ctx context.Context, tx usecase.Transaction, id string, exitTime time.Time, amount decimal.Decimal) error
	CountOpenFunc               func(ctx context.Context, class domain.VehicleClass) (int, error)
	ListByEntryWindowFunc       func(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error)
	ListClosedByExitWindowFunc  func(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

// Seed inserts entries directly, bypassing uniqueness checks.
func (m *MockEntryRepository) Seed(entries ...*domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.TokenID] = e
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.TokenID]; ok {
		return domain.ErrDuplicateToken
	}
	m.entries[entry.TokenID] = entry
	return nil
}

func (m *MockEntryRepository) GetOpenByToken(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	if m.GetOpenByTokenFunc != nil {
		return m.GetOpenByTokenFunc(ctx, class, tokenID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[tokenID]
	if !ok || e.VehicleClass != class || !e.IsOpen() {
		return nil, domain.ErrEntryNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *MockEntryRepository) GetOpenByTokenForUpdate(ctx context.Context, tx usecase.Transaction, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	if m.GetOpenByTokenForUpdateFunc != nil {
		return m.GetOpenByTokenForUpdateFunc(ctx, tx, class, tokenID)
	}
	return m.GetOpenByToken(ctx, class, tokenID)
}

func (m *MockEntryRepository) Close(ctx context.Context, tx usecase.Transaction, id string, exitTime time.Time, amount decimal.Decimal) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, tx, id, exitTime, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			if !e.IsOpen() {
				return domain.ErrEntryNotFound
			}
			e.ExitTime = &exitTime
			e.Amount = &amount
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (m *MockEntryRepository) CountOpen(ctx context.Context, class domain.VehicleClass) (int, error) {
	if m.CountOpenFunc != nil {
		return m.CountOpenFunc(ctx, class)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.entries {
		if e.VehicleClass == class && e.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (m *MockEntryRepository) ListByEntryWindow(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error) {
	if m.ListByEntryWindowFunc != nil {
		return m.ListByEntryWindowFunc(ctx, class, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.VehicleClass == class && !e.EntryTime.Before(start) && e.EntryTime.Before(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListClosedByExitWindow(ctx context.Context, class domain.VehicleClass, start, end time.Time) ([]*domain.Entry, error) {
	if m.ListClosedByExitWindowFunc != nil {
		return m.ListClosedByExitWindowFunc(ctx, class, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.VehicleClass != class || e.ExitTime == nil {
			continue
		}
		if !e.ExitTime.Before(start) && e.ExitTime.Before(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockAuditRepository collects audit rows in memory.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc      func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc    func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListByTokenFunc func(ctx context.Context, tokenID string, limit int) ([]*domain.AuditLog, error)
	ListRecentFunc  func(ctx context.Context, limit int) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) ListByToken(ctx context.Context, tokenID string, limit int) ([]*domain.AuditLog, error) {
	if m.ListByTokenFunc != nil {
		return m.ListByTokenFunc(ctx, tokenID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if l.TokenID == tokenID && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockAuditRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.logs) > limit {
		return m.logs[len(m.logs)-limit:], nil
	}
	return m.logs, nil
}

// Logs returns a snapshot of everything recorded so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by username

	CreateFunc        func(ctx context.Context, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.Username] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[username]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockTransaction is a no-op Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.RolledBack = true
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator returns sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%03d", m.counter)
}

// MockTokenGenerator returns scripted tokens.
type MockTokenGenerator struct {
	mu           sync.Mutex
	Tokens       []string
	GenerateFunc func(prefix string) string
}

func (m *MockTokenGenerator) Generate(prefix string) string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Tokens) == 0 {
		return prefix + "AAAAAA"
	}
	token := m.Tokens[0]
	m.Tokens = m.Tokens[1:]
	return token
}

// MockCache is an in-memory Cache without TTL expiry.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (c *MockCache) Get(ctx context.Context, key string) (string, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key], nil
}

func (c *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.SetFunc != nil {
		return c.SetFunc(ctx, key, value, ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *MockCache) Delete(ctx context.Context, key string) error {
	if c.DeleteFunc != nil {
		return c.DeleteFunc(ctx, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}
