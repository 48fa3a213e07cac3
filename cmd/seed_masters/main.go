// seed_masters genera el script SQL para poblar los maestros replicados
// (productos y centros de distribución) a partir de los exportes planos del
// ERP, que llegan en CSV con punto y coma e ISO-8859-1.
//
// Uso: go run ./cmd/seed_masters [productos.csv] [ubicaciones.csv]
// Por defecto busca productos.csv y ubicaciones.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_masters.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type productRow struct {
	code           string
	name           string
	unitsPerPallet int64
	unitMeasure    string
}

type locationRow struct {
	code string
	name string
}

func main() {
	productsPath := "productos.csv"
	locationsPath := "ubicaciones.csv"
	if len(os.Args) > 1 {
		productsPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		locationsPath = os.Args[2]
	}

	products, err := readProducts(productsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer productos: %v\n", err)
		os.Exit(1)
	}
	locations, err := readLocations(locationsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer ubicaciones: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_masters.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Maestros replicados desde el exporte plano del ERP\n")
	out.WriteString("-- Generado por cmd/seed_masters\n\n")

	out.WriteString("-- 1. Productos\n")
	for _, p := range products {
		fmt.Fprintf(out, "INSERT INTO products (id, code, name, units_per_pallet, unit_measure)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', %d, '%s')\n",
			stableID("product:"+p.code), escapeSQL(p.code), escapeSQL(p.name), p.unitsPerPallet, escapeSQL(p.unitMeasure))
		out.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, units_per_pallet = EXCLUDED.units_per_pallet, unit_measure = EXCLUDED.unit_measure;\n")
	}

	out.WriteString("\n-- 2. Centros de distribución\n")
	for _, l := range locations {
		fmt.Fprintf(out, "INSERT INTO locations (id, code, name)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s')\n",
			stableID("location:"+l.code), escapeSQL(l.code), escapeSQL(l.name))
		out.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;\n")
	}

	fmt.Printf("Generado %s: %d productos, %d ubicaciones\n", outPath, len(products), len(locations))
}

// latin1CSV abre el exporte del ERP: ISO-8859-1, separado por punto y coma,
// con fila de encabezado.
func latin1CSV(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if _, err := r.Read(); err != nil { // descartar encabezado
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

func readProducts(path string) ([]productRow, error) {
	r, f, err := latin1CSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []productRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(record) < 2 {
			continue
		}
		p := productRow{
			code: strings.TrimSpace(record[0]),
			name: strings.TrimSpace(record[1]),
		}
		if p.code == "" || p.name == "" {
			continue
		}
		if len(record) > 2 {
			p.unitsPerPallet, _ = strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
		}
		if len(record) > 3 {
			p.unitMeasure = strings.TrimSpace(record[3])
		}
		rows = append(rows, p)
	}
	return rows, nil
}

func readLocations(path string) ([]locationRow, error) {
	r, f, err := latin1CSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []locationRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(record) < 2 {
			continue
		}
		l := locationRow{
			code: strings.TrimSpace(record[0]),
			name: strings.TrimSpace(record[1]),
		}
		if l.code == "" || l.name == "" {
			continue
		}
		rows = append(rows, l)
	}
	return rows, nil
}

// stableID deriva un UUID determinístico del código: re-ejecutar el seed no
// cambia identidades ya referenciadas por lotes o movimientos.
func stableID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
