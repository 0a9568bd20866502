package infrastructure

import (
	"fmt"
	"iter"

	"github.com/xuri/excelize/v2"

	"onlineretail/internal/ingest/domain"
)

// XLSXSource lit la première feuille d'un classeur Excel (format de publication du jeu UCI)
type XLSXSource struct {
	path string
}

// NewXLSXSource crée une source sur un fichier .xlsx
func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

// Rows parcourt la feuille en streaming (excelize.Rows), sans charger tout le classeur en cellules
func (s *XLSXSource) Rows() iter.Seq2[domain.Row, error] {
	return func(yield func(domain.Row, error) bool) {
		f, err := excelize.OpenFile(s.path)
		if err != nil {
			yield(nil, fmt.Errorf("open xlsx %s: %w", s.path, err))
			return
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return
		}

		rows, err := f.Rows(sheets[0])
		if err != nil {
			yield(nil, fmt.Errorf("read sheet %s: %w", sheets[0], err))
			return
		}
		defer rows.Close()

		var columns []string
		for rows.Next() {
			record, err := rows.Columns()
			if err != nil {
				yield(nil, fmt.Errorf("read xlsx row: %w", err))
				return
			}
			if columns == nil {
				columns = normalizeHeader(record)
				continue
			}
			if !yield(toRow(columns, record), nil) {
				return
			}
		}
		if err := rows.Error(); err != nil {
			yield(nil, fmt.Errorf("read xlsx: %w", err))
		}
	}
}
