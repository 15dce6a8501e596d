package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// writeSQL escribe el script de carga. Es idempotente: los IDs son deterministas y cada
// INSERT lleva ON CONFLICT DO NOTHING.
func writeSQL(w io.Writer, source string, items []*seedItem) error {
	bw := bufio.NewWriter(w)
	movements := 0
	for _, it := range items {
		movements += len(it.Movements)
	}

	fmt.Fprintf(bw, "-- Carga inicial de inventario desde %s\n", source)
	fmt.Fprintf(bw, "-- %d insumos, %d movimientos\n\n", len(items), movements)
	bw.WriteString("BEGIN;\n\n")

	bw.WriteString("-- 1. Insumos\n")
	for _, it := range items {
		fmt.Fprintf(bw, "INSERT INTO inventory_items (id, code, name, current_quantity, average_cost, status)\n")
		fmt.Fprintf(bw, "VALUES ('%s', '%s', '%s', %s, %s, 'activo')\n",
			it.ID, escapeSQL(it.Code), escapeSQL(it.Name), it.CurrentQuantity.String(), it.AverageCost.String())
		bw.WriteString("ON CONFLICT (code) DO NOTHING;\n")
	}

	bw.WriteString("\n-- 2. Movimientos\n")
	for _, it := range items {
		for _, m := range it.Movements {
			fmt.Fprintf(bw, "INSERT INTO inventory_movements (id, item_id, direction, quantity, unit_price, lot_label, expiration_date, date, notes)\n")
			fmt.Fprintf(bw, "SELECT '%s', id, '%s', %s, %s, '%s', %s, '%s', '%s' FROM inventory_items WHERE code = '%s'\n",
				m.ID, m.Direction, m.Quantity.String(), m.UnitPrice.String(), escapeSQL(m.LotLabel),
				sqlTime(m.ExpirationDate), m.Date.Format(time.RFC3339), escapeSQL(m.Notes), escapeSQL(it.Code))
			bw.WriteString("ON CONFLICT (id) DO NOTHING;\n")
		}
	}
	bw.WriteString("\nCOMMIT;\n")
	return bw.Flush()
}

func sqlTime(t *time.Time) string {
	if t == nil {
		return "NULL"
	}
	return "'" + t.Format(time.RFC3339) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
