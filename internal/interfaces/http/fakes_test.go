package http_test

import (
	"context"
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

// store repositorios en memoria compartidos por todas las rutas de la app de prueba.
type store struct {
	mu        sync.Mutex
	items     map[string]*entity.InventoryItem
	movements []entity.InventoryMovement
	users     map[string]*entity.User
	patients  map[string]*entity.Patient
}

func newStore() *store {
	return &store{
		items:    make(map[string]*entity.InventoryItem),
		users:    make(map[string]*entity.User),
		patients: make(map[string]*entity.Patient),
	}
}

// ── insumos ──────────────────────────────────────────────────────────────────

type itemRepo struct{ s *store }

var _ repository.InventoryItemRepository = itemRepo{}

func (r itemRepo) Create(_ context.Context, it *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.items {
		if x.Code == it.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r itemRepo) GetByCode(_ context.Context, code string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.Code == code {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r itemRepo) Update(_ context.Context, it *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[it.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r itemRepo) UpdateStock(_ context.Context, id string, qty, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.CurrentQuantity, it.AverageCost = qty, cost
	return nil
}

func (r itemRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.InventoryItem, error) {
	all, _ := r.ListActive(context.Background())
	var out []*entity.InventoryItem
	for _, it := range all {
		if search == "" || strings.Contains(strings.ToLower(it.Name), strings.ToLower(search)) {
			out = append(out, it)
		}
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

func (r itemRepo) ListActive(_ context.Context) ([]*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryItem
	for _, it := range r.s.items {
		if it.IsActive() {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ── movimientos ─────────────────────────────────────────────────────────────

type movementRepo struct{ s *store }

var _ repository.InventoryMovementRepository = movementRepo{}

func (r movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r movementRepo) ListAllByItem(_ context.Context, itemID string) ([]entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r movementRepo) ListByItem(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	all, _ := r.ListAllByItem(ctx, itemID)
	var out []*entity.InventoryMovement
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if (from != nil && m.Date.Before(*from)) || (to != nil && m.Date.After(*to)) {
			continue
		}
		out = append(out, &m)
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

type txRunner struct{ s *store }

func (t txRunner) Run(_ context.Context, fn func(repository.InventoryMovementRepository, repository.InventoryItemRepository) error) error {
	return fn(movementRepo(t), itemRepo(t))
}

func (t txRunner) ReadSnapshot(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.InventoryItemRepository) error) error {
	return t.Run(ctx, fn)
}

// ── usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct{ s *store }

var _ repository.UserRepository = userRepo{}

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if x.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r userRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

// ── pacientes ────────────────────────────────────────────────────────────────

type patientRepo struct{ s *store }

var _ repository.PatientRepository = patientRepo{}

func (r patientRepo) Create(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.patients {
		if x.DocumentNumber == p.DocumentNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.s.patients[p.ID] = &cp
	return nil
}

func (r patientRepo) GetByID(_ context.Context, id string) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.patients[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r patientRepo) GetByDocument(_ context.Context, doc string) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.patients {
		if p.DocumentNumber == doc {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r patientRepo) Update(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.patients[p.ID] = &cp
	return nil
}

func (r patientRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Patient
	for _, p := range r.s.patients {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ── generadores de reportes ──────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) GenerateValuationReport(r *dto.InventoryReportResponse) ([]byte, error) {
	return []byte("%PDF-" + r.Method), nil
}

type fakeXLSX struct{}

func (fakeXLSX) GenerateValuationWorkbook(r *dto.InventoryReportResponse) ([]byte, error) {
	return []byte("PK-" + r.Method), nil
}
