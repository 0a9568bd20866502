package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"onlineretail/database"
	"onlineretail/internal/config"
	"onlineretail/internal/ingest/application"
	"onlineretail/internal/ingest/infrastructure"
	sharedinfra "onlineretail/internal/shared/infrastructure"
)

type options struct {
	configPath  string
	input       string
	metricsFile string
	initSchema  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "etl",
		Short:        "Charge le fichier Online Retail (CSV ou XLSX) dans la base",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "fichier de configuration YAML (optionnel)")
	cmd.Flags().StringVar(&opts.input, "input", "", "fichier source (.csv ou .xlsx), défaut: ETL_INPUT")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "écrit les métriques au format textfile Prometheus")
	cmd.Flags().BoolVar(&opts.initSchema, "init-schema", false, "crée les tables si absentes avant le chargement")
	return cmd
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.input != "" {
		cfg.ETL.Input = opts.input
	}

	logger := sharedinfra.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

	source, closeSource, err := openSource(cfg.ETL.Input)
	if err != nil {
		logger.Error("cannot open input", "input", cfg.ETL.Input, "error", err)
		return err
	}
	defer closeSource()

	db, err := database.Open(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Error("database connection failed", "host", cfg.Database.Host, "db", cfg.Database.Name, "error", err)
		return err
	}
	defer db.Close()
	fmt.Fprintln(out, "✅ Connexion PostgreSQL établie")

	if opts.initSchema {
		if err := database.ApplySchema(ctx, db); err != nil {
			logger.Error("schema creation failed", "error", err)
			return err
		}
	}

	metrics := sharedinfra.NewMetrics()
	service := application.NewETLService(source, infrastructure.NewBulkLoader(db), metrics, logger)

	fmt.Fprintf(out, "🌱 Chargement de %s...\n", cfg.ETL.Input)
	fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	report, runErr := service.Run(ctx)

	if opts.metricsFile != "" {
		if err := metrics.WriteToTextfile(opts.metricsFile); err != nil {
			logger.Warn("cannot write metrics file", "path", opts.metricsFile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("ETL failed, nothing was written", "error", runErr)
		return runErr
	}

	printReport(out, report)
	return nil
}

// openSource choisit le lecteur selon l'extension du fichier
func openSource(path string) (application.Source, func(), error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, err
		}
		return infrastructure.NewXLSXSource(path), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return infrastructure.NewCSVSource(f), func() { f.Close() }, nil
}

func printReport(out io.Writer, r *application.Report) {
	fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(out, "✅ Data loaded successfully!")
	fmt.Fprintf(out, "  Lignes lues      : %d\n", r.Stats.RowsRead)
	fmt.Fprintf(out, "  Lignes ignorées  : %d\n", r.Stats.RowsDropped)
	fmt.Fprintf(out, "  Valeurs par défaut (date/quantité/prix) : %d/%d/%d\n",
		r.Stats.DatesDefaulted, r.Stats.QuantityDefaulted, r.Stats.PriceDefaulted)
	fmt.Fprintf(out, "  Clients          : %d\n", r.Customers)
	fmt.Fprintf(out, "  Produits         : %d\n", r.Products)
	fmt.Fprintf(out, "  Factures         : %d (%d lignes)\n", r.Invoices, r.LineItems)
	fmt.Fprintf(out, "  Durée            : %s\n", r.Duration.Round(time.Millisecond))
}
