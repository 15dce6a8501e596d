// seed_inventario genera un script SQL con los insumos y movimientos exportados del sistema
// anterior (CSV separado por ';' en Windows-1252).
//
// Uso: go run ./cmd/seed_inventario movimientos.csv [salida.sql]
// Sin salida escribe en stdout. Columnas: codigo;nombre;tipo;fecha;cantidad;precio;lote;vencimiento
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_inventario movimientos.csv [salida.sql]")
		os.Exit(2)
	}
	csvPath := os.Args[1]

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	items, err := buildSeed(rows)
	var invalid *inventory.InvalidMovementError
	if errors.As(err, &invalid) {
		fmt.Fprintf(os.Stderr, "%d movimiento(s) inválido(s), no se generó el script:\n", len(invalid.Violations))
		for _, v := range invalid.Violations {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", v.MovementID, v.Reason)
		}
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Preparar carga: %v\n", err)
		os.Exit(1)
	}
	for _, it := range items {
		if it.Shortfall.IsPositive() {
			fmt.Fprintf(os.Stderr, "Aviso: %s tiene salidas sin stock por %s unidades\n", it.Code, it.Shortfall)
		}
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		file, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	if err := writeSQL(out, filepath.Base(csvPath), items); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d insumos, %d filas\n", len(items), len(rows))
}
