package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/jwt"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func newMemoryUsers() *memoryUsers { return &memoryUsers{users: map[string]entity.User{}} }

func (m *memoryUsers) Create(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memoryUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) Update(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *memoryUsers) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}

func (m *memoryUsers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func newAuth(repo *memoryUsers) *AuthUseCase {
	uc := NewAuthUseCase(repo, JWTConfig{Secret: "test", ExpMinutes: 5, Issuer: "test"})
	uc.cost = bcrypt.MinCost
	return uc
}

func TestRegisterUser_Login(t *testing.T) {
	repo := newMemoryUsers()
	uc := newAuth(repo)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "Farma@Clinica.pe", Password: "supersecreto", Name: "Farmacia", Role: entity.RoleFarmacia})
	require.NoError(t, err)
	assert.Equal(t, "farma@clinica.pe", u.Email)
	assert.Equal(t, domain.StatusActive, u.Status)

	stored, _ := repo.GetByEmail(ctx, "farma@clinica.pe")
	assert.NotEqual(t, "supersecreto", stored.PasswordHash, "el password se guarda hasheado")

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "farma@clinica.pe", Password: "supersecreto"})
	require.NoError(t, err)
	uid, role, err := jwt.Parse("test", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
	assert.Equal(t, entity.RoleFarmacia, role)
}

func TestRegisterUser_Rechazos(t *testing.T) {
	uc := newAuth(newMemoryUsers())
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "a@b.pe", Password: "corta", Name: "A", Role: entity.RoleMedico})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "a@b.pe", Password: "12345678", Name: "A", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "a@b.pe", Password: "12345678", Name: "A", Role: entity.RoleMedico})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "A@B.pe", Password: "12345678", Name: "B", Role: entity.RoleMedico})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CredencialesInvalidasOInactivo(t *testing.T) {
	repo := newMemoryUsers()
	uc := newAuth(repo)
	ctx := context.Background()
	u, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Email: "enf@clinica.pe", Password: "12345678", Name: "Enf", Role: entity.RoleEnfermero})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "enf@clinica.pe", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@clinica.pe", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	stored, _ := repo.GetByID(ctx, u.ID)
	stored.Status = domain.StatusInactive
	require.NoError(t, repo.Update(ctx, stored))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "enf@clinica.pe", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEnsureAdmin_SoloSiNoHayUsuarios(t *testing.T) {
	repo := newMemoryUsers()
	uc := newAuth(repo)
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created, "sin credenciales configuradas no se crea nada")

	created, err = uc.EnsureAdmin(ctx, "admin@clinica.pe", "adminadmin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "otro@clinica.pe", "adminadmin")
	require.NoError(t, err)
	assert.False(t, created)

	admin, _ := repo.GetByEmail(ctx, "admin@clinica.pe")
	require.NotNil(t, admin)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	me, err := uc.Me(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@clinica.pe", me.Email)
	_, err = uc.Me(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
