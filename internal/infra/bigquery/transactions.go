package bigquery

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Scheme is the URI prefix selecting a BigQuery table as the dataset source.
const Scheme = "bq://"

// TransactionRow is one row of the source table, with every column cast to the
// CSV contract by the read query.
type TransactionRow struct {
	InvoiceDate time.Time           `bigquery:"invoice_date"` // REQUIRED
	Quantity    int64               `bigquery:"quantity"`     // REQUIRED
	UnitPrice   bigquery.NullString `bigquery:"unit_price"`   // NUMERIC/FLOAT64 cast to STRING
	Description bigquery.NullString `bigquery:"description"`  // NULLABLE
	CustomerID  bigquery.NullString `bigquery:"customer_id"`  // NULLABLE, cast to STRING
	Country     bigquery.NullString `bigquery:"country"`      // NULLABLE
}

// TableRef identifies a BigQuery table.
type TableRef struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// String renders the reference as a backquoted standard-SQL identifier.
func (r TableRef) String() string {
	return fmt.Sprintf("`%s.%s.%s`", r.ProjectID, r.DatasetID, r.TableID)
}

// maxNameLen is the longest dataset or table id BigQuery accepts.
const maxNameLen = 1024

var (
	projectPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{4,61}[a-z0-9]$`)
	namePattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ParseTableURI parses bq://project/dataset/table. Identifiers are validated
// because they are interpolated into the query text.
func ParseTableURI(uri string) (TableRef, error) {
	if !strings.HasPrefix(uri, Scheme) {
		return TableRef{}, fmt.Errorf("invalid BigQuery URI: %s", uri)
	}

	parts := strings.Split(strings.TrimPrefix(uri, Scheme), "/")
	if len(parts) != 3 {
		return TableRef{}, fmt.Errorf("invalid BigQuery URI (want bq://project/dataset/table): %s", uri)
	}

	ref := TableRef{ProjectID: parts[0], DatasetID: parts[1], TableID: parts[2]}
	if !projectPattern.MatchString(ref.ProjectID) {
		return TableRef{}, fmt.Errorf("invalid BigQuery project id %q", ref.ProjectID)
	}
	if !validName(ref.DatasetID) {
		return TableRef{}, fmt.Errorf("invalid BigQuery dataset id %q", ref.DatasetID)
	}
	if !validName(ref.TableID) {
		return TableRef{}, fmt.Errorf("invalid BigQuery table id %q", ref.TableID)
	}

	return ref, nil
}

func validName(id string) bool {
	return len(id) <= maxNameLen && namePattern.MatchString(id)
}

// ToTransaction converts a row into a domain transaction, deriving TotalSales.
func (r TransactionRow) ToTransaction() (domain.Transaction, error) {
	if !r.UnitPrice.Valid {
		return domain.Transaction{}, fmt.Errorf("unit_price is NULL")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.UnitPrice.StringVal))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("unit_price %q: %w", r.UnitPrice.StringVal, err)
	}

	customer := domain.CustomerID{}
	if r.CustomerID.Valid {
		customer = domain.ParseCustomerID(r.CustomerID.StringVal)
	}

	return domain.NewTransaction(
		r.InvoiceDate.UTC(),
		nullString(r.Description),
		customer,
		nullString(r.Country),
		r.Quantity,
		price,
	), nil
}

func nullString(s bigquery.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.StringVal
}
