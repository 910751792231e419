package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/analytics"
	"github.com/dvloznov/sales-dashboard/internal/config"
	"github.com/dvloznov/sales-dashboard/internal/dataset"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/dvloznov/sales-dashboard/internal/gcs"
	infraBQ "github.com/dvloznov/sales-dashboard/internal/infra/bigquery"
	"github.com/dvloznov/sales-dashboard/internal/logger"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "report":
		runReport()
	case "bounds":
		runBounds()
	case "upload":
		runUpload()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Sales Dashboard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  report    Print the dashboard result sets for a date range as JSON")
	fmt.Println("  bounds    Print the dataset's date bounds, row count and total sales")
	fmt.Println("  upload    Upload a sales CSV to GCS")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// loadTable loads the configured dataset or exits.
func loadTable(ctx context.Context, cfg *config.Config, log zerolog.Logger) *dataset.Table {
	opts := cfg.ClientOptions()
	loader := dataset.NewLoader(
		dataset.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		dataset.WithStorage(gcs.NewService(opts...)),
		dataset.WithWarehouse(infraBQ.TableSource{BillingProject: cfg.GCPProject, Options: opts}),
		dataset.WithLogger(log),
	)

	table, err := loader.Load(ctx, cfg.SourceURL)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.SourceURL).Msg("Failed to load dataset")
	}
	return table
}

func parseFlags(fs *flag.FlagSet) (*config.Config, zerolog.Logger) {
	flags := config.RegisterFlags(fs)
	fs.Parse(os.Args[2:])

	cfg, err := flags.Load()
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	return cfg, logger.New(cfg.LogLevel)
}

func runReport() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	startDate := fs.String("start", "", "Start date, YYYY-MM-DD or RFC 3339 (defaults to the first invoice)")
	endDate := fs.String("end", "", "End date, YYYY-MM-DD or RFC 3339 (defaults to the last invoice)")
	pretty := fs.Bool("pretty", false, "Indent the JSON output")
	cfg, log := parseFlags(fs)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	table := loadTable(ctx, cfg, log)
	selected := table.Bounds()

	var err error
	if *startDate != "" {
		if selected.Start, err = domain.ParseDate(*startDate); err != nil {
			log.Fatal().Err(err).Msg("Invalid -start")
		}
	}
	if *endDate != "" {
		if selected.End, err = domain.ParseDate(*endDate); err != nil {
			log.Fatal().Err(err).Msg("Invalid -end")
		}
	}

	report := struct {
		Range domain.DateRange `json:"range"`
		analytics.Result
	}{
		Range:  selected,
		Result: analytics.Aggregate(table, selected.Start, selected.End),
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
}

func runBounds() {
	fs := flag.NewFlagSet("bounds", flag.ExitOnError)
	cfg, log := parseFlags(fs)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	table := loadTable(ctx, cfg, log)
	bounds := table.Bounds()

	fmt.Println("\n=== Dataset ===")
	fmt.Printf("Source:        %s\n", cfg.SourceURL)
	fmt.Printf("Rows:          %d\n", table.Len())
	fmt.Printf("First invoice: %s\n", bounds.Start.Format(time.DateTime))
	fmt.Printf("Last invoice:  %s\n", bounds.End.Format(time.DateTime))
	fmt.Printf("Total sales:   %s\n", table.TotalSales().StringFixed(2))
	fmt.Println()
}

func runUpload() {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local CSV file")
	validate := fs.Bool("validate", true, "Parse the file before uploading")
	cfg, log := parseFlags(fs)

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	if *validate {
		table, err := dataset.NewLoader(dataset.WithLogger(log)).Load(ctx, *filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("File is not a valid sales CSV")
		}
		log.Info().Int("rows", table.Len()).Msg("File validated")
	}

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	if err := gcs.NewService(cfg.ClientOptions()...).Upload(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", *filePath, gcs.ObjectURI(*bucketName, *objectName))
}
