// Package memory keeps users, orders and action logs in process memory.
// It is used when no database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
)

// Storage acts as repository facade backed by maps.
type Storage struct {
	mu     sync.RWMutex
	users  map[int64]model.User
	emails map[string]int64
	orders map[int64]*orderRecord
	refs   map[string]int64

	userSeq  int64
	orderSeq int64
	logSeq   atomic.Int64
}

// orderRecord serializes mutations of a single order.
type orderRecord struct {
	mu      sync.Mutex
	order   model.Order
	logs    []model.ActionLogEntry
	deleted bool
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

var _ repository.Factory = (*Storage)(nil)

// New returns an empty store.
func New() *Storage {
	return &Storage{
		users:  make(map[int64]model.User),
		emails: make(map[string]int64),
		orders: make(map[int64]*orderRecord),
		refs:   make(map[string]int64),
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

// HealthCheck always succeeds.
func (s *Storage) HealthCheck(context.Context) error {
	return nil
}

func (s *Storage) Close() {}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(_ context.Context, user model.User) (*model.User, error) {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, ok := s.emails[key]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.userSeq++
	user.ID = s.userSeq
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	s.emails[key] = user.ID
	return &user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[emailKey(email)]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &user, nil
}

func (s *Storage) record(id int64) (*orderRecord, error) {
	s.mu.RLock()
	rec, ok := s.orders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return rec, nil
}

func (r *orderRepository) NextKey(_ context.Context) (int64, error) {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderSeq++
	return s.orderSeq, nil
}

func (r *orderRepository) Create(_ context.Context, order *model.Order, entry model.ActionLogEntry) error {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.refs[order.OrderID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	if order.ID == 0 {
		s.orderSeq++
		order.ID = s.orderSeq
	} else if _, ok := s.orders[order.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	entry.OrderKey = order.ID
	entry.ID = s.logSeq.Add(1)
	s.orders[order.ID] = &orderRecord{order: order.Clone(), logs: []model.ActionLogEntry{entry}}
	s.refs[order.OrderID] = order.ID
	return nil
}

func (r *orderRepository) Get(_ context.Context, id int64) (*model.Order, error) {
	rec, err := r.storage.record(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.deleted {
		return nil, domainErrors.ErrNotFound
	}
	order := rec.order.Clone()
	return &order, nil
}

func (r *orderRepository) Update(_ context.Context, id int64, fn repository.Mutation) (*model.Order, error) {
	rec, err := r.storage.record(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.deleted {
		return nil, domainErrors.ErrNotFound
	}

	draft := rec.order.Clone()
	entry, err := fn(&draft)
	if err != nil {
		return nil, err
	}
	entry.OrderKey = id
	entry.ID = r.storage.logSeq.Add(1)
	rec.order = draft.Clone()
	rec.logs = append(rec.logs, entry)
	return &draft, nil
}

func (r *orderRepository) Delete(_ context.Context, id int64, check func(*model.Order) error) (*model.Order, error) {
	s := r.storage
	rec, err := s.record(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.deleted {
		return nil, domainErrors.ErrNotFound
	}

	snapshot := rec.order.Clone()
	if err := check(&snapshot); err != nil {
		return nil, err
	}
	rec.deleted = true
	rec.logs = nil

	s.mu.Lock()
	delete(s.orders, id)
	delete(s.refs, snapshot.OrderID)
	s.mu.Unlock()
	return &snapshot, nil
}

func (r *orderRepository) List(_ context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	s := r.storage
	s.mu.RLock()
	records := make([]*orderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	var result []model.Order
	for _, rec := range records {
		rec.mu.Lock()
		if !rec.deleted && matches(&rec.order, filter) {
			result = append(result, rec.order.Clone())
		}
		rec.mu.Unlock()
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func matches(o *model.Order, filter repository.OrderFilter) bool {
	if filter.BuyerID != nil && !o.BoughtBy(*filter.BuyerID) {
		return false
	}
	if filter.SellerID != nil && !o.SoldBy(*filter.SellerID) {
		return false
	}
	return true
}

func (r *orderRepository) Logs(_ context.Context, id int64) ([]model.ActionLogEntry, error) {
	rec, err := r.storage.record(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.deleted {
		return nil, domainErrors.ErrNotFound
	}
	logs := make([]model.ActionLogEntry, len(rec.logs))
	copy(logs, rec.logs)
	return logs, nil
}
