package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/dvloznov/sales-dashboard/internal/gcs"
	"github.com/dvloznov/sales-dashboard/internal/infra/bigquery"
	"github.com/rs/zerolog"
)

// ErrUnsupportedSource is returned for URLs whose scheme the loader cannot read.
var ErrUnsupportedSource = errors.New("unsupported dataset source")

// ObjectFetcher downloads gs:// objects.
type ObjectFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// TableReader reads bq:// tables that already follow the CSV column contract.
type TableReader interface {
	ReadTable(ctx context.Context, uri string) ([]domain.Transaction, error)
}

// Loader fetches the source once and builds the Table. There is no retry;
// a failure is returned to the caller, which treats it as fatal.
type Loader struct {
	httpClient *http.Client
	storage    ObjectFetcher
	warehouse  TableReader
	log        zerolog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http:// and https:// sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.httpClient = c }
}

// WithStorage sets the gs:// fetcher.
func WithStorage(s ObjectFetcher) Option {
	return func(l *Loader) { l.storage = s }
}

// WithWarehouse sets the bq:// reader.
func WithWarehouse(w TableReader) Option {
	return func(l *Loader) { l.warehouse = w }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader builds a Loader with defaults for every source.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		storage:    gcs.NewService(),
		warehouse:  bigquery.TableSource{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load is a shortcut for NewLoader().Load.
func Load(ctx context.Context, url string) (*Table, error) {
	return NewLoader().Load(ctx, url)
}

// Load reads the source named by url and returns the derived table.
func (l *Loader) Load(ctx context.Context, url string) (*Table, error) {
	start := time.Now()

	table, err := l.load(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("load dataset from %s: %w", url, err)
	}

	bounds := table.Bounds()
	l.log.Info().
		Str("source", url).
		Int("rows", table.Len()).
		Time("min_invoice_date", bounds.Start).
		Time("max_invoice_date", bounds.End).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	return table, nil
}

func (l *Loader) load(ctx context.Context, url string) (*Table, error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return l.loadHTTP(ctx, url)

	case strings.HasPrefix(url, gcs.Scheme):
		data, err := l.storage.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return ParseCSV(bytes.NewReader(data))

	case strings.HasPrefix(url, bigquery.Scheme):
		rows, err := l.warehouse.ReadTable(ctx, url)
		if err != nil {
			return nil, err
		}
		return NewTable(rows), nil

	case strings.HasPrefix(url, "file://"):
		return loadFile(strings.TrimPrefix(url, "file://"))

	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, url)

	default:
		return loadFile(url)
	}
}

func (l *Loader) loadHTTP(ctx context.Context, url string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return ParseCSV(resp.Body)
}

func loadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %q: %w", path, err)
	}
	defer f.Close()

	return ParseCSV(f)
}
