package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cotizador/backend/internal/domain"
)

// Column names required in the catalog file.
const (
	colDescription = "Descripcion"
	colCashPrice   = "Precio Contado"
	colCardPrice   = "Precio Tarjeta"
	colSegment     = "SEGMENTO"
)

var requiredColumns = []string{colDescription, colCashPrice, colCardPrice, colSegment}

// LoadFile reads a semicolon-delimited catalog file into a Store. The file
// must carry the four required columns; otherwise a domain.SchemaError
// listing the missing ones is returned. Rows with an empty required cell
// are skipped rather than failing the load.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return load(f)
}

func load(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}

	var records []domain.ProductRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		rec := domain.ProductRecord{
			Description: cell(row, index[colDescription]),
			CashPrice:   cell(row, index[colCashPrice]),
			CardPrice:   cell(row, index[colCardPrice]),
			Segment:     cell(row, index[colSegment]),
		}
		if rec.Description == "" || rec.Segment == "" {
			continue
		}
		records = append(records, rec)
	}

	return NewStore(records), nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
