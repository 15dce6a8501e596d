package inventory_test

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(id, date, qty, price string) entity.InventoryMovement {
	return entity.InventoryMovement{
		ID:        id,
		Direction: entity.DirectionEntry,
		Date:      day(date),
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
		LotLabel:  "L-" + id,
	}
}

func withdrawal(id, date, qty string) entity.InventoryMovement {
	return entity.InventoryMovement{
		ID:        id,
		Direction: entity.DirectionWithdrawal,
		Date:      day(date),
		Quantity:  decimal.RequireFromString(qty),
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	assert.True(t, w.Equal(got), "%s: se esperaba %s y se obtuvo %s", msg, w.String(), got.String())
}

type lotWant struct{ qty, price string }

func assertLots(t *testing.T, want []lotWant, got []inventory.Lot) {
	t.Helper()
	require.Len(t, got, len(want), "cantidad de lotes sobrevivientes")
	for i, w := range want {
		assertDec(t, w.qty, got[i].RemainingQuantity, "cantidad restante del lote")
		assertDec(t, w.price, got[i].UnitPrice, "precio del lote")
	}
}

var bothMethods = []inventory.Method{inventory.MethodFIFO, inventory.MethodLIFO}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios concretos
// ──────────────────────────────────────────────────────────────────────────────

func TestValuate_UnaEntradaSinSalidas(t *testing.T) {
	movs := []entity.InventoryMovement{entry("e1", "2024-01-01", "100", "15.50")}
	for _, m := range bothMethods {
		t.Run(string(m), func(t *testing.T) {
			v, err := inventory.Valuate(movs, m)
			require.NoError(t, err)
			assertLots(t, []lotWant{{"100", "15.50"}}, v.SurvivingLots)
			assertDec(t, "100", v.TotalQuantity, "cantidad total")
			assertDec(t, "1550.00", v.TotalValue, "valor total")
			assertDec(t, "15.50", v.AverageUnitCost, "costo promedio")
			assert.Equal(t, 1, v.ActiveLots)
			assert.Equal(t, 1, v.EntryCount)
			assert.True(t, v.Shortfall.IsZero())
		})
	}
}

func TestValuate_PEPS_SalidaParcialConsumeLoteMasAntiguo(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e1", "2024-01-15", "100", "15.50"),
		entry("e2", "2024-02-10", "50", "16.20"),
		withdrawal("s1", "2024-01-20", "25"),
	}
	for _, tl := range []inventory.Timeline{inventory.TimelineCausal, inventory.TimelineIndependent} {
		t.Run(string(tl), func(t *testing.T) {
			v, err := inventory.ValuateWithTimeline(movs, inventory.MethodFIFO, tl)
			require.NoError(t, err)
			assertLots(t, []lotWant{{"75", "15.50"}, {"50", "16.20"}}, v.SurvivingLots)
			assertDec(t, "125", v.TotalQuantity, "cantidad total")
			assertDec(t, "1972.50", v.TotalValue, "valor total")
			assertDec(t, "15.78", v.AverageUnitCost, "costo promedio")
		})
	}
}

// Con la línea de tiempo cronológica la salida del 20/01 solo ve el lote del 15/01,
// por lo que UEPS coincide con PEPS.
func TestValuate_UEPS_Cronologico_SoloConsumeLotesExistentes(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e1", "2024-01-15", "100", "15.50"),
		entry("e2", "2024-02-10", "50", "16.20"),
		withdrawal("s1", "2024-01-20", "25"),
	}
	lifo, err := inventory.Valuate(movs, inventory.MethodLIFO)
	require.NoError(t, err)
	fifo, err := inventory.Valuate(movs, inventory.MethodFIFO)
	require.NoError(t, err)

	assertLots(t, []lotWant{{"75", "15.50"}, {"50", "16.20"}}, lifo.SurvivingLots)
	assertDec(t, "1972.50", lifo.TotalValue, "valor total UEPS")
	assert.True(t, fifo.TotalValue.Equal(lifo.TotalValue), "PEPS y UEPS deben coincidir")
	assert.Equal(t, inventory.TimelineCausal, lifo.Timeline)
}

// La política independiente reproduce el comportamiento histórico: la salida consume del lote
// más reciente aunque su fecha sea posterior a la salida.
func TestValuate_UEPS_Independiente_ConsumeLoteMasReciente(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e1", "2024-01-15", "100", "15.50"),
		entry("e2", "2024-02-10", "50", "16.20"),
		withdrawal("s1", "2024-01-20", "25"),
	}
	v, err := inventory.ValuateWithTimeline(movs, inventory.MethodLIFO, inventory.TimelineIndependent)
	require.NoError(t, err)
	assertLots(t, []lotWant{{"100", "15.50"}, {"25", "16.20"}}, v.SurvivingLots)
	assertDec(t, "125", v.TotalQuantity, "cantidad total")
	assertDec(t, "1955.00", v.TotalValue, "valor total")
	assert.Equal(t, inventory.TimelineIndependent, v.Timeline)
}

func TestValuate_SalidaMayorAlStock_NoEsFatal(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e1", "2024-01-01", "10", "5.00"),
		withdrawal("s1", "2024-01-02", "15"),
	}
	for _, m := range bothMethods {
		t.Run(string(m), func(t *testing.T) {
			v, err := inventory.Valuate(movs, m)
			require.NoError(t, err, "el desabastecimiento no debe ser un error")
			assert.Empty(t, v.SurvivingLots)
			assert.True(t, v.TotalQuantity.IsZero())
			assert.True(t, v.TotalValue.IsZero())
			assert.True(t, v.AverageUnitCost.IsZero())
			assert.Equal(t, 0, v.ActiveLots)
			assertDec(t, "5", v.Shortfall, "faltante")
			assert.Equal(t, 1, v.EntryCount, "hubo entradas aunque no quede stock")
		})
	}
}

func TestValuate_EntradaConCantidadNegativa_FallaSinResultado(t *testing.T) {
	movs := []entity.InventoryMovement{entry("e1", "2024-01-01", "-5", "5.00")}
	v, err := inventory.Valuate(movs, inventory.MethodFIFO)
	require.Error(t, err)
	assert.Nil(t, v, "no debe devolverse un resultado parcial")
	assert.True(t, errors.Is(err, domain.ErrInvalidMovement))

	var invalid *inventory.InvalidMovementError
	require.True(t, errors.As(err, &invalid))
	require.Len(t, invalid.Violations, 1)
	assert.Equal(t, "e1", invalid.Violations[0].MovementID)
	assert.Contains(t, err.Error(), "e1")
}

func TestValuate_SinMovimientos(t *testing.T) {
	for _, m := range bothMethods {
		v, err := inventory.Valuate(nil, m)
		require.NoError(t, err)
		assert.Empty(t, v.SurvivingLots)
		assert.True(t, v.TotalQuantity.IsZero())
		assert.True(t, v.TotalValue.IsZero())
		assert.True(t, v.AverageUnitCost.IsZero())
		assert.Equal(t, 0, v.EntryCount)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateMovements_ReportaTodasLasViolaciones(t *testing.T) {
	badDirection := entry("e3", "2024-01-03", "1", "1")
	badDirection.Direction = "AJUSTE"
	movs := []entity.InventoryMovement{
		entry("e1", "2024-01-01", "0", "5.00"),
		entry("e2", "2024-01-02", "10", "-1"),
		badDirection,
		withdrawal("s1", "2024-01-04", "-3"),
		entry("e5", "2024-01-05", "4", "2"),
		entry("e5", "2024-01-06", "4", "2"),
	}
	err := inventory.ValidateMovements(movs)
	var invalid *inventory.InvalidMovementError
	require.True(t, errors.As(err, &invalid))

	ids := make([]string, 0, len(invalid.Violations))
	for _, v := range invalid.Violations {
		ids = append(ids, v.MovementID)
	}
	assert.ElementsMatch(t, []string{"e1", "e2", "e3", "s1", "e5"}, ids)
}

func TestValidateMovements_PrecioDeSalidaNoSeValida(t *testing.T) {
	s := withdrawal("s1", "2024-01-02", "1")
	s.UnitPrice = decimal.NewFromInt(-10)
	movs := []entity.InventoryMovement{entry("e1", "2024-01-01", "5", "2"), s}

	require.NoError(t, inventory.ValidateMovements(movs))
	v, err := inventory.Valuate(movs, inventory.MethodFIFO)
	require.NoError(t, err)
	assertDec(t, "8", v.TotalValue, "la salida hereda el costo del lote, no su propio precio")
}

func TestValidateMovements_SinIDUsaPosicion(t *testing.T) {
	m := entry("", "2024-01-01", "0", "1")
	err := inventory.ValidateMovements([]entity.InventoryMovement{m})
	var invalid *inventory.InvalidMovementError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "#1", invalid.Violations[0].MovementID)
}

func TestValuate_MetodoOLineaDeTiempoDesconocidos(t *testing.T) {
	_, err := inventory.ValuateWithTimeline(nil, inventory.Method("PROMEDIO"), inventory.TimelineCausal)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.ValuateWithTimeline(nil, inventory.MethodFIFO, inventory.Timeline("otra"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de consumo
// ──────────────────────────────────────────────────────────────────────────────

func TestValuate_PEPSyUEPS_DifierenEnValorPeroNoEnCantidad(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e1", "2024-01-01", "100", "10"),
		entry("e2", "2024-01-05", "100", "20"),
		withdrawal("s1", "2024-01-10", "150"),
	}
	fifo, err := inventory.Valuate(movs, inventory.MethodFIFO)
	require.NoError(t, err)
	lifo, err := inventory.Valuate(movs, inventory.MethodLIFO)
	require.NoError(t, err)

	assertLots(t, []lotWant{{"50", "20"}}, fifo.SurvivingLots)
	assertLots(t, []lotWant{{"50", "10"}}, lifo.SurvivingLots)
	assertDec(t, "1000", fifo.TotalValue, "valor PEPS")
	assertDec(t, "500", lifo.TotalValue, "valor UEPS")
	assert.True(t, fifo.TotalQuantity.Equal(lifo.TotalQuantity))
}

func TestValuate_SalidaCruzaVariosLotes(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e1", "2024-03-01", "10", "1"),
		entry("e2", "2024-03-02", "10", "2"),
		entry("e3", "2024-03-03", "10", "3"),
		withdrawal("s1", "2024-03-04", "12.5"),
		withdrawal("s2", "2024-03-05", "10"),
	}
	v, err := inventory.Valuate(movs, inventory.MethodFIFO)
	require.NoError(t, err)
	assertLots(t, []lotWant{{"7.5", "3"}}, v.SurvivingLots)
	assertDec(t, "22.5", v.TotalValue, "valor total")

	v, err = inventory.Valuate(movs, inventory.MethodLIFO)
	require.NoError(t, err)
	assertLots(t, []lotWant{{"7.5", "1"}}, v.SurvivingLots)
	assertDec(t, "7.5", v.TotalValue, "valor total")
}

func TestValuate_Cronologico_EntradaMismoInstanteEsElegible(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e1", "2024-01-01", "10", "1"),
		entry("e2", "2024-01-05", "10", "2"),
		withdrawal("s1", "2024-01-05", "5"),
	}
	v, err := inventory.Valuate(movs, inventory.MethodLIFO)
	require.NoError(t, err)
	assertLots(t, []lotWant{{"10", "1"}, {"5", "2"}}, v.SurvivingLots)
}

func TestValuate_Cronologico_SalidaAntesDeEntradasQuedaComoFaltante(t *testing.T) {
	movs := []entity.InventoryMovement{
		withdrawal("s1", "2024-01-01", "4"),
		entry("e1", "2024-01-02", "10", "3"),
	}
	v, err := inventory.Valuate(movs, inventory.MethodFIFO)
	require.NoError(t, err)
	assertDec(t, "10", v.TotalQuantity, "el lote posterior no se consume")
	assertDec(t, "4", v.Shortfall, "faltante")
	assertDec(t, "6", v.TotalQuantity.Sub(v.Shortfall), "existencia menos faltante cuadra con entradas menos salidas")

	v, err = inventory.ValuateWithTimeline(movs, inventory.MethodFIFO, inventory.TimelineIndependent)
	require.NoError(t, err)
	assertDec(t, "6", v.TotalQuantity, "la política independiente sí lo consume")
	assert.True(t, v.Shortfall.IsZero())
}

func TestValuate_DesempateMismaFechaPorID(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("b", "2024-01-01", "10", "2"),
		entry("a", "2024-01-01", "10", "1"),
		withdrawal("s1", "2024-01-02", "5"),
	}
	v, err := inventory.Valuate(movs, inventory.MethodFIFO)
	require.NoError(t, err)
	require.Len(t, v.SurvivingLots, 2)
	assert.Equal(t, "a", v.SurvivingLots[0].MovementID)
	assertDec(t, "5", v.SurvivingLots[0].RemainingQuantity, "consume primero el lote con menor ID")
}

func TestValuate_ConservaVencimientoYEtiqueta(t *testing.T) {
	exp := day("2025-06-30")
	e := entry("e1", "2024-01-01", "10", "1")
	e.ExpirationDate = &exp
	v, err := inventory.Valuate([]entity.InventoryMovement{e}, inventory.MethodFIFO)
	require.NoError(t, err)
	require.Len(t, v.SurvivingLots, 1)
	require.NotNil(t, v.SurvivingLots[0].ExpirationDate)
	assert.True(t, exp.Equal(*v.SurvivingLots[0].ExpirationDate))
	assert.Equal(t, "L-e1", v.SurvivingLots[0].Label)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestValuate_Idempotente_NoModificaEntrada(t *testing.T) {
	movs := []entity.InventoryMovement{
		entry("e2", "2024-02-10", "50", "16.20"),
		withdrawal("s1", "2024-01-20", "25"),
		entry("e1", "2024-01-15", "100", "15.50"),
	}
	original := append([]entity.InventoryMovement(nil), movs...)

	v1, err := inventory.Valuate(movs, inventory.MethodLIFO)
	require.NoError(t, err)
	v2, err := inventory.Valuate(movs, inventory.MethodLIFO)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, original, movs, "la entrada no debe reordenarse ni mutarse")
}

func TestValuate_OrdenDeEntradaNoAlteraResultado(t *testing.T) {
	movs := randomHistory(rand.New(rand.NewSource(7)), 40)
	rng := rand.New(rand.NewSource(11))
	for _, tl := range []inventory.Timeline{inventory.TimelineCausal, inventory.TimelineIndependent} {
		for _, m := range bothMethods {
			want, err := inventory.ValuateWithTimeline(movs, m, tl)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				shuffled := append([]entity.InventoryMovement(nil), movs...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
				got, err := inventory.ValuateWithTimeline(shuffled, m, tl)
				require.NoError(t, err)
				assert.Equal(t, want, got, "%s/%s", m, tl)
			}
		}
	}
}

func TestValuate_Invariantes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		movs := randomHistory(rng, 1+rng.Intn(30))

		sumIn, sumOut := decimal.Zero, decimal.Zero
		for _, m := range movs {
			if m.IsEntry() {
				sumIn = sumIn.Add(m.Quantity)
			} else {
				sumOut = sumOut.Add(m.Quantity)
			}
		}

		for _, tl := range []inventory.Timeline{inventory.TimelineCausal, inventory.TimelineIndependent} {
			fifo, err := inventory.ValuateWithTimeline(movs, inventory.MethodFIFO, tl)
			require.NoError(t, err)
			lifo, err := inventory.ValuateWithTimeline(movs, inventory.MethodLIFO, tl)
			require.NoError(t, err)

			for _, v := range []*inventory.Valuation{fifo, lifo} {
				assert.False(t, v.TotalQuantity.IsNegative())
				assert.True(t, v.TotalQuantity.LessThanOrEqual(sumIn))
				assert.False(t, v.TotalValue.IsNegative())
				assert.False(t, v.AverageUnitCost.IsNegative())
				assert.Equal(t, len(v.SurvivingLots), v.ActiveLots)
				// conservación: lo que queda es lo que entró menos lo efectivamente despachado
				assert.True(t, v.TotalQuantity.Equal(sumIn.Sub(sumOut).Add(v.Shortfall)),
					"ronda %d %s: %s != %s - %s + %s", round, tl, v.TotalQuantity, sumIn, sumOut, v.Shortfall)
				for _, l := range v.SurvivingLots {
					assert.True(t, l.RemainingQuantity.IsPositive())
					assert.True(t, l.RemainingQuantity.LessThanOrEqual(l.OriginalQuantity))
				}
			}
			assert.True(t, fifo.TotalQuantity.Equal(lifo.TotalQuantity), "la cantidad no depende del método")
			assert.True(t, fifo.Shortfall.Equal(lifo.Shortfall))
		}
	}
}

func randomHistory(rng *rand.Rand, n int) []entity.InventoryMovement {
	start := day("2024-01-01")
	movs := make([]entity.InventoryMovement, 0, n)
	for i := 0; i < n; i++ {
		m := entity.InventoryMovement{
			ID:       "m" + strconv.Itoa(i),
			Date:     start.AddDate(0, 0, rng.Intn(60)),
			Quantity: decimal.NewFromInt(int64(1 + rng.Intn(50))),
		}
		if rng.Intn(3) == 0 {
			m.Direction = entity.DirectionWithdrawal
		} else {
			m.Direction = entity.DirectionEntry
			m.UnitPrice = decimal.NewFromInt(int64(rng.Intn(2000))).Div(decimal.NewFromInt(100))
		}
		movs = append(movs, m)
	}
	return movs
}

// ──────────────────────────────────────────────────────────────────────────────
// Parsers y helpers de lote
// ──────────────────────────────────────────────────────────────────────────────

func TestParseMethod(t *testing.T) {
	cases := map[string]inventory.Method{
		"PEPS": inventory.MethodFIFO, "fifo": inventory.MethodFIFO,
		"ueps": inventory.MethodLIFO, " LIFO ": inventory.MethodLIFO,
	}
	for in, want := range cases {
		got, err := inventory.ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := inventory.ParseMethod("promedio")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseTimeline(t *testing.T) {
	tl, err := inventory.ParseTimeline("")
	require.NoError(t, err)
	assert.Equal(t, inventory.TimelineCausal, tl)

	tl, err = inventory.ParseTimeline("INDEPENDIENTE")
	require.NoError(t, err)
	assert.Equal(t, inventory.TimelineIndependent, tl)

	_, err = inventory.ParseTimeline("x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLot_Vencimiento(t *testing.T) {
	now := day("2024-06-01")
	vencido := day("2024-05-31")
	pronto := day("2024-06-20")
	lejano := day("2025-01-01")

	assert.True(t, inventory.Lot{ExpirationDate: &vencido}.IsExpired(now))
	assert.False(t, inventory.Lot{ExpirationDate: &vencido}.ExpiresWithin(now, 30))
	assert.True(t, inventory.Lot{ExpirationDate: &pronto}.ExpiresWithin(now, 30))
	assert.False(t, inventory.Lot{ExpirationDate: &lejano}.ExpiresWithin(now, 30))
	assert.False(t, inventory.Lot{}.IsExpired(now))
}
