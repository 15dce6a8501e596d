package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
)

// columnas: codigo;nombre;tipo;fecha;cantidad;precio;lote;vencimiento
const columns = 8

// seedNamespace hace que los IDs generados sean estables entre ejecuciones.
var seedNamespace = uuid.MustParse("5b0c7a4e-3d1f-4c8e-9a61-2f6e8d9b0c13")

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

type row struct {
	Line     int
	Code     string
	Name     string
	Movement entity.InventoryMovement
}

type seedItem struct {
	ID              string
	Code            string
	Name            string
	CurrentQuantity decimal.Decimal
	AverageCost     decimal.Decimal
	Shortfall       decimal.Decimal
	Movements       []entity.InventoryMovement
}

// lineError errores de formato acumulados, uno por línea.
type lineError struct {
	problems []string
}

func (e *lineError) Error() string {
	return fmt.Sprintf("%d línea(s) con formato inválido:\n  %s", len(e.problems), strings.Join(e.problems, "\n  "))
}

// readRows decodifica el CSV (Windows-1252, separado por ';'). La cabecera es opcional.
// Devuelve todas las filas mal formadas juntas.
func readRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows     []row
		problems []string
		line     int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer csv: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		parsed, err := parseRow(line, rec)
		if err != nil {
			problems = append(problems, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		rows = append(rows, parsed)
	}
	if len(problems) > 0 {
		return nil, &lineError{problems: problems}
	}
	return rows, nil
}

func parseRow(line int, rec []string) (row, error) {
	if len(rec) < columns-2 || len(rec) > columns {
		return row{}, fmt.Errorf("se esperaban %d columnas, hay %d", columns, len(rec))
	}
	for len(rec) < columns {
		rec = append(rec, "")
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	if rec[0] == "" {
		return row{}, errors.New("código vacío")
	}

	date, err := parseDate(rec[3])
	if err != nil {
		return row{}, fmt.Errorf("fecha %q: %w", rec[3], err)
	}
	qty, err := parseNumber(rec[4])
	if err != nil {
		return row{}, fmt.Errorf("cantidad %q: %w", rec[4], err)
	}
	price := decimal.Zero
	if rec[5] != "" {
		if price, err = parseNumber(rec[5]); err != nil {
			return row{}, fmt.Errorf("precio %q: %w", rec[5], err)
		}
	}
	var expiration *time.Time
	if rec[7] != "" {
		exp, err := parseDate(rec[7])
		if err != nil {
			return row{}, fmt.Errorf("vencimiento %q: %w", rec[7], err)
		}
		expiration = &exp
	}

	return row{
		Line: line,
		Code: strings.ToUpper(rec[0]),
		Name: rec[1],
		Movement: entity.InventoryMovement{
			ID:             fmt.Sprintf("línea %d", line),
			Direction:      parseDirection(rec[2]),
			Quantity:       qty,
			UnitPrice:      price,
			LotLabel:       rec[6],
			ExpirationDate: expiration,
			Date:           date,
			Notes:          "importado del sistema anterior",
		},
	}, nil
}

// parseDirection traduce los códigos del sistema anterior. Lo desconocido se devuelve tal cual
// para que la validación del motor lo reporte.
func parseDirection(s string) string {
	switch strings.ToUpper(s) {
	case "E", "I", "ENTRADA", "INGRESO":
		return entity.DirectionEntry
	case "S", "SALIDA", "EGRESO", "CONSUMO":
		return entity.DirectionWithdrawal
	}
	return strings.ToUpper(s)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("formato no reconocido (dd/mm/aaaa o aaaa-mm-dd)")
}

// parseNumber acepta coma decimal ("12,50") y punto de miles ("1.200,50").
func parseNumber(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// buildSeed valida todos los movimientos con el motor de costeo y agrupa por insumo.
// Con cualquier movimiento inválido no se genera nada.
func buildSeed(rows []row) ([]*seedItem, error) {
	movs := make([]entity.InventoryMovement, len(rows))
	for i, r := range rows {
		movs[i] = r.Movement
	}
	if err := inventory.ValidateMovements(movs); err != nil {
		return nil, err
	}

	byCode := make(map[string]*seedItem)
	var order []string
	for _, r := range rows {
		it, ok := byCode[r.Code]
		if !ok {
			it = &seedItem{
				ID:   uuid.NewSHA1(seedNamespace, []byte("item|"+r.Code)).String(),
				Code: r.Code,
				Name: r.Name,
			}
			byCode[r.Code] = it
			order = append(order, r.Code)
		}
		if it.Name == "" {
			it.Name = r.Name
		}
		m := r.Movement
		m.ID = uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("mov|%s|%d", r.Code, r.Line))).String()
		m.ItemID = it.ID
		it.Movements = append(it.Movements, m)
	}

	items := make([]*seedItem, 0, len(order))
	for _, code := range order {
		it := byCode[code]
		if it.Name == "" {
			it.Name = it.Code
		}
		if err := it.computeCounters(); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// computeCounters deja el contador y el costo promedio como los habría dejado registrar cada
// movimiento en orden, y calcula el faltante según el motor.
func (it *seedItem) computeCounters() error {
	sort.SliceStable(it.Movements, func(i, j int) bool {
		return it.Movements[i].Date.Before(it.Movements[j].Date)
	})
	qty, avg := decimal.Zero, decimal.Zero
	for _, m := range it.Movements {
		if m.IsEntry() {
			avg = inventory.CostCalculator(qty, avg, m.Quantity, m.UnitPrice)
			qty = qty.Add(m.Quantity)
			continue
		}
		qty = qty.Sub(m.Quantity)
	}
	it.CurrentQuantity = qty
	it.AverageCost = avg

	v, err := inventory.Valuate(it.Movements, inventory.MethodFIFO)
	if err != nil {
		return fmt.Errorf("valorizar %s: %w", it.Code, err)
	}
	it.Shortfall = v.Shortfall
	return nil
}
