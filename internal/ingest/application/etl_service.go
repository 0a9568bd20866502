package application

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"onlineretail/internal/ingest/domain"
	sharedinfra "onlineretail/internal/shared/infrastructure"
)

// Source fournit les lignes brutes (CSV, XLSX...)
type Source interface {
	Rows() iter.Seq2[domain.Row, error]
}

// Loader écrit un batch complet dans le store
type Loader interface {
	Load(ctx context.Context, batch *domain.Batch) error
}

// Report résume un run d'ETL
type Report struct {
	Stats     Stats
	Customers int
	Products  int
	Invoices  int
	LineItems int
	Duration  time.Duration
}

// ETLService enchaîne lecture, normalisation et chargement
type ETLService struct {
	source  Source
	loader  Loader
	metrics *sharedinfra.Metrics
	logger  *slog.Logger
}

// NewETLService crée le service; metrics peut être nil
func NewETLService(source Source, loader Loader, metrics *sharedinfra.Metrics, logger *slog.Logger) *ETLService {
	return &ETLService{
		source:  source,
		loader:  loader,
		metrics: metrics,
		logger:  logger,
	}
}

// Run lit toute la source puis charge le batch en une transaction.
// Erreur de lecture ou de chargement: rien n'est écrit, l'erreur est retournée.
func (s *ETLService) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	normalizer := NewNormalizer()
	batch, err := normalizer.Normalize(s.source.Rows())
	stats := normalizer.Stats()
	s.recordStats(stats)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	s.logger.Info("source parsed",
		"stats", stats,
		"customers", batch.Customers.Len(),
		"products", batch.Products.Len(),
		"invoices", batch.Invoices.Len(),
	)

	loadStart := time.Now()
	if err := s.loader.Load(ctx, batch); err != nil {
		if s.metrics != nil {
			s.metrics.LoadFailuresTotal.Inc()
		}
		return nil, fmt.Errorf("load batch: %w", err)
	}

	report := &Report{
		Stats:     stats,
		Customers: batch.Customers.Len(),
		Products:  batch.Products.Len(),
		Invoices:  batch.Invoices.Len(),
		LineItems: batch.LineItemCount(),
		Duration:  time.Since(start),
	}

	if s.metrics != nil {
		s.metrics.LoadDuration.Observe(time.Since(loadStart).Seconds())
		s.metrics.EntitiesLoaded.WithLabelValues("customer").Add(float64(report.Customers))
		s.metrics.EntitiesLoaded.WithLabelValues("product").Add(float64(report.Products))
		s.metrics.EntitiesLoaded.WithLabelValues("invoice").Add(float64(report.Invoices))
	}

	s.logger.Info("batch loaded", "invoices", report.Invoices, "line_items", report.LineItems, "duration", report.Duration)
	return report, nil
}

func (s *ETLService) recordStats(stats Stats) {
	if s.metrics == nil {
		return
	}
	s.metrics.RowsRead.Add(float64(stats.RowsRead))
	s.metrics.RowsDropped.Add(float64(stats.RowsDropped))
	s.metrics.FieldsDefaulted.WithLabelValues("invoice_date").Add(float64(stats.DatesDefaulted))
	s.metrics.FieldsDefaulted.WithLabelValues("quantity").Add(float64(stats.QuantityDefaulted))
	s.metrics.FieldsDefaulted.WithLabelValues("unit_price").Add(float64(stats.PriceDefaulted))
}
