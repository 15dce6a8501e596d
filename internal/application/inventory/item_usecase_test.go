package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
)

func TestItemUseCase_CrearYDuplicado(t *testing.T) {
	uc := NewItemUseCase(newMemoryStore(), nil, nil)
	ctx := context.Background()

	item, err := uc.Create(ctx, dto.CreateItemRequest{Code: " gua-001 ", Name: "Guantes de nitrilo", Unit: "caja", MinStock: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "GUA-001", item.Code, "el código se normaliza")
	assert.Equal(t, domain.StatusActive, item.Status)
	assert.True(t, item.CurrentQuantity.IsZero())

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "GUA-001", Name: "Otro", Unit: "caja"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "X", Name: "Sin unidad"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "Y", Name: "Negativo", Unit: "u", MinStock: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUseCase_ActualizarYDesactivar(t *testing.T) {
	uc := NewItemUseCase(newMemoryStore(), nil, nil)
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateItemRequest{Code: "ALC-1", Name: "Alcohol", Unit: "frasco"})
	require.NoError(t, err)

	name := "Alcohol 70%"
	updated, err := uc.Update(ctx, item.ID, dto.UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	require.NoError(t, uc.Deactivate(ctx, item.ID))
	got, err := uc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, got.Status)

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Deactivate(ctx, "nope"), domain.ErrNotFound)
}

func TestItemUseCase_ListarConBusqueda(t *testing.T) {
	uc := NewItemUseCase(newMemoryStore(), nil, nil)
	ctx := context.Background()
	for _, c := range []string{"GUA-1", "GUA-2", "JER-1"} {
		_, err := uc.Create(ctx, dto.CreateItemRequest{Code: c, Name: "Insumo " + c, Unit: "u"})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, "gua", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 20, list.Page.Limit)

	list, err = uc.List(ctx, "", dto.PageRequest{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "JER-1", list.Items[0].Code)
}

func TestItemUseCase_ActualizarInvalidaValorizacionCacheada(t *testing.T) {
	f := newFixture(t)
	f.seedItem("it-1", "GAS-1")
	uc := NewItemUseCase(f.store, f.valuation, nil)
	ctx := context.Background()

	_, err := f.register.RegisterMovement(ctx, MovementInputDTO{ItemID: "it-1", Direction: entity.DirectionEntry, Quantity: dec("10"), UnitPrice: dec("2")})
	require.NoError(t, err)
	_, err = f.valuation.ValuateItem(ctx, "it-1", inventory.MethodFIFO)
	require.NoError(t, err)
	key := CacheKey("it-1", inventory.MethodFIFO, inventory.TimelineCausal)
	require.True(t, f.cache.has(key))

	name := "Gasa estéril 10x10"
	_, err = uc.Update(ctx, "it-1", dto.UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.False(t, f.cache.has(key), "el cambio de nombre descarta la valorización cacheada")

	v, err := f.valuation.ValuateItem(ctx, "it-1", inventory.MethodFIFO)
	require.NoError(t, err)
	assert.Equal(t, name, v.Name)

	require.NoError(t, uc.Deactivate(ctx, "it-1"))
	assert.False(t, f.cache.has(key), "desactivar también la descarta")
}
