package infrastructure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"onlineretail/internal/ingest/domain"
)

// CSVSource lit un fichier CSV dont la première ligne contient les en-têtes
type CSVSource struct {
	r io.Reader
}

// NewCSVSource crée une source CSV sur un reader (fichier, buffer...)
func NewCSVSource(r io.Reader) *CSVSource {
	return &CSVSource{r: r}
}

// Rows retourne une séquence paresseuse: une ligne lue par itération, mémoire bornée.
// Une ligne mal formée produit une erreur et termine la séquence.
func (s *CSVSource) Rows() iter.Seq2[domain.Row, error] {
	return func(yield func(domain.Row, error) bool) {
		reader := csv.NewReader(s.r)
		reader.ReuseRecord = true

		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("read csv header: %w", err))
			return
		}
		columns := normalizeHeader(header)

		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("read csv: %w", err))
				return
			}
			if !yield(toRow(columns, record), nil) {
				return
			}
		}
	}
}

// normalizeHeader copie les en-têtes et retire le BOM UTF-8 laissé par les tableurs
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return columns
}

// toRow associe chaque valeur à sa colonne; les cellules manquantes restent vides
func toRow(columns, record []string) domain.Row {
	row := make(domain.Row, len(columns))
	for i, col := range columns {
		if i < len(record) {
			row[col] = record[i]
		}
	}
	return row
}
