package inventory

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/repository"
)

// memoryStore implementa los repositorios de insumos y movimientos en memoria.
type memoryStore struct {
	mu        sync.Mutex
	items     map[string]entity.InventoryItem
	movements []entity.InventoryMovement
	listCalls int
	// onList se ejecuta al leer el historial completo; permite detener una valorización a mitad.
	onList func()
	// root es el almacén original cuando este es una instantánea.
	root *memoryStore
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: make(map[string]entity.InventoryItem)}
}

func (s *memoryStore) addItem(it entity.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.Status == "" {
		it.Status = domain.StatusActive
	}
	s.items[it.ID] = it
}

func (s *memoryStore) addMovement(m entity.InventoryMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, m)
}

func (s *memoryStore) item(id string) entity.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

// Run simula una transacción: si fn falla se restaura el estado previo.
func (s *memoryStore) Run(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.InventoryItemRepository) error) error {
	s.mu.Lock()
	items := make(map[string]entity.InventoryItem, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	movs := append([]entity.InventoryMovement(nil), s.movements...)
	s.mu.Unlock()

	if err := fn(s.movRepo(), s); err != nil {
		s.mu.Lock()
		s.items, s.movements = items, movs
		s.mu.Unlock()
		return err
	}
	return nil
}

// ReadSnapshot entrega a fn una copia congelada del estado, como una transacción REPEATABLE READ.
func (s *memoryStore) ReadSnapshot(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.InventoryItemRepository) error) error {
	s.mu.Lock()
	snap := &memoryStore{
		items:     make(map[string]entity.InventoryItem, len(s.items)),
		movements: append([]entity.InventoryMovement(nil), s.movements...),
		root:      s,
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	s.mu.Unlock()
	return fn(snap.movRepo(), snap)
}

func (s *memoryStore) setOnList(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onList = fn
}

// ── InventoryItemRepository ──

func (s *memoryStore) Create(ctx context.Context, item *entity.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Code == item.Code {
			return domain.ErrDuplicate
		}
	}
	s.items[item.ID] = *item
	return nil
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (s *memoryStore) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Code == code {
			cp := it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return s.GetByID(ctx, id)
}

func (s *memoryStore) Update(ctx context.Context, item *entity.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	s.items[item.ID] = *item
	return nil
}

func (s *memoryStore) UpdateStock(ctx context.Context, id string, quantity, averageCost decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.items[id]
	it.CurrentQuantity = quantity
	it.AverageCost = averageCost
	s.items[id] = it
	return nil
}

func (s *memoryStore) List(ctx context.Context, search string, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range s.sorted() {
		if search != "" && !strings.Contains(strings.ToLower(it.Code+" "+it.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, it)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) ListActive(ctx context.Context) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range s.sorted() {
		if it.IsActive() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *memoryStore) sorted() []*entity.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.InventoryItem, 0, len(s.items))
	for _, it := range s.items {
		cp := it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ── InventoryMovementRepository ──

type movementRepo struct{ *memoryStore }

func (s *memoryStore) movRepo() repository.InventoryMovementRepository { return movementRepo{s} }

func (r movementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	r.addMovement(*m)
	return nil
}

func (r movementRepo) ListAllByItem(ctx context.Context, itemID string) ([]entity.InventoryMovement, error) {
	root := r.memoryStore
	if root.root != nil {
		root = root.root
	}
	root.mu.Lock()
	root.listCalls++
	hook := root.onList
	root.mu.Unlock()
	if hook != nil {
		hook()
	}
	return r.byItem(itemID), nil
}

func (s *memoryStore) byItem(itemID string) []entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.InventoryMovement
	for _, m := range s.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out
}

func (s *memoryStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (r movementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	all := r.byItem(itemID)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	var out []*entity.InventoryMovement
	for i := range all {
		if from != nil && all[i].Date.Before(*from) {
			continue
		}
		if to != nil && all[i].Date.After(*to) {
			continue
		}
		out = append(out, &all[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r movementRepo) CountByItem(ctx context.Context, itemID string, from, to *time.Time) (int, error) {
	list, _ := r.ListByItem(ctx, itemID, from, to, math.MaxInt, 0)
	return len(list), nil
}

// memoryCache caché en memoria con contadores; failGet simula Redis caído.
type memoryCache struct {
	mu      sync.Mutex
	data    map[string]*dto.ItemValuationResponse
	failGet bool
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]*dto.ItemValuationResponse)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*dto.ItemValuationResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, errors.New("redis: connection refused")
	}
	return c.data[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, v *dto.ItemValuationResponse, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
