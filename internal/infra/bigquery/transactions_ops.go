package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// TransactionReader reads the whole transactions table from BigQuery.
type TransactionReader struct {
	client *bigquery.Client
}

// NewTransactionReader creates a reader whose queries are billed to projectID.
func NewTransactionReader(ctx context.Context, projectID string, opts ...option.ClientOption) (*TransactionReader, error) {
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewTransactionReader: creating client: %w", err)
	}
	return &TransactionReader{client: client}, nil
}

// Close closes the BigQuery client connection.
func (r *TransactionReader) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ReadTransactions loads every row of the table in a single query.
func (r *TransactionReader) ReadTransactions(ctx context.Context, table TableRef) ([]domain.Transaction, error) {
	q := r.client.Query(readQuery(table))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ReadTransactions: query read: %w", err)
	}

	txs := make([]domain.Transaction, 0, it.TotalRows)
	for rowNo := 1; ; rowNo++ {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadTransactions: iter next: %w", err)
		}

		tx, err := row.ToTransaction()
		if err != nil {
			return nil, fmt.Errorf("ReadTransactions: row %d: %w", rowNo, err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// TableSource opens a short-lived reader per call. Queries are billed to
// BillingProject, or to the table's own project when it is empty.
type TableSource struct {
	BillingProject string
	Options        []option.ClientOption
}

// ReadTable reads every transaction of the table named by a bq:// URI.
func (s TableSource) ReadTable(ctx context.Context, uri string) ([]domain.Transaction, error) {
	table, err := ParseTableURI(uri)
	if err != nil {
		return nil, err
	}

	project := s.BillingProject
	if project == "" {
		project = table.ProjectID
	}

	reader, err := NewTransactionReader(ctx, project, s.Options...)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return reader.ReadTransactions(ctx, table)
}

func readQuery(table TableRef) string {
	return fmt.Sprintf(`
		SELECT
		  CAST(InvoiceDate AS TIMESTAMP) AS invoice_date,
		  CAST(Quantity AS INT64) AS quantity,
		  CAST(UnitPrice AS STRING) AS unit_price,
		  CAST(Description AS STRING) AS description,
		  CAST(CustomerID AS STRING) AS customer_id,
		  CAST(Country AS STRING) AS country
		FROM %s
	`, table)
}
