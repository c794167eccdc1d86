package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateEvent indicates a sale with the same upstream event id is
// already on the ledger.
var ErrDuplicateEvent = errors.New("duplicate event id")

const saleColumns = "id, event_id, product_id, product_title, license_id, license_name, customer, amount, date, status, delivered_json, urls_json"

// NewSaleID mints a ledger identifier: a millisecond timestamp for
// human-sortable ordering plus a random suffix for uniqueness.
func NewSaleID(now time.Time) string {
	return fmt.Sprintf("sale_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// AppendSale writes a sale record to the ledger. Records are append-only;
// there is no update path. Returns ErrDuplicateEvent when the sale's event
// id already exists.
func (s *Store) AppendSale(ctx context.Context, sale *Sale) error {
	if sale == nil {
		return errors.New("sale is nil")
	}
	if sale.ID == "" {
		sale.ID = NewSaleID(time.Now())
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now().UTC()
	}
	if sale.Status == "" {
		sale.Status = SaleCompleted
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sales (`+saleColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID,
		nullableString(sale.EventID),
		sale.ProductID,
		sale.ProductTitle,
		sale.LicenseID,
		sale.LicenseName,
		sale.Customer,
		sale.Amount,
		formatTime(sale.Date),
		sale.Status,
		marshalStrings(sale.FilesDelivered),
		marshalStrings(sale.DownloadURLs),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: sales.event_id") {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("append sale: %w", err)
	}
	return nil
}

// FindSaleByEventID returns the ledger record for an upstream event id, or
// nil when the event has not been fulfilled.
func (s *Store) FindSaleByEventID(ctx context.Context, eventID string) (*Sale, error) {
	if eventID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE event_id = ?`, eventID)
	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sale by event: %w", err)
	}
	return sale, nil
}

// ListSales returns ledger records, most recent first. A limit of zero
// returns everything.
func (s *Store) ListSales(ctx context.Context, limit int) ([]*Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// SalesStats aggregates the ledger for operator reporting.
func (s *Store) SalesStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM sales`)
	if err := row.Scan(&stats.TotalSales, &stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE status = ?`, StatusActive)
	if err := row.Scan(&stats.ActiveBeats); err != nil {
		return nil, fmt.Errorf("active beats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT product_title, COUNT(*) AS n FROM sales GROUP BY product_title`)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps ProductSales
		if err := rows.Scan(&ps.Title, &ps.Count); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(stats.TopProducts, func(i, j int) bool {
		return stats.TopProducts[i].Count > stats.TopProducts[j].Count
	})
	if len(stats.TopProducts) > 5 {
		stats.TopProducts = stats.TopProducts[:5]
	}
	return stats, nil
}

func scanSale(scanner interface{ Scan(dest ...any) error }) (*Sale, error) {
	var (
		id           string
		eventID      sql.NullString
		productID    string
		productTitle string
		licenseID    string
		licenseName  string
		customer     string
		amount       float64
		dateRaw      sql.NullString
		status       string
		delivered    sql.NullString
		urls         sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&eventID,
		&productID,
		&productTitle,
		&licenseID,
		&licenseName,
		&customer,
		&amount,
		&dateRaw,
		&status,
		&delivered,
		&urls,
	); err != nil {
		return nil, err
	}

	sale := &Sale{
		ID:             id,
		EventID:        eventID.String,
		ProductID:      productID,
		ProductTitle:   productTitle,
		LicenseID:      licenseID,
		LicenseName:    licenseName,
		Customer:       customer,
		Amount:         amount,
		Status:         status,
		FilesDelivered: unmarshalStrings(delivered.String),
		DownloadURLs:   unmarshalStrings(urls.String),
	}
	if date, err := parseTimeString(dateRaw.String); err == nil {
		sale.Date = date
	}
	return sale, nil
}
