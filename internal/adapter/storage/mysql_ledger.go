package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/storelane/inventory/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

const defaultHistoryLimit = 50
const maxHistoryLimit = 200

// MySQLLedger stores the per-product counter in stock_items and the
// append-only history in adjustment_events. The counter update and the
// event append commit in one transaction, so either both land or neither.
type MySQLLedger struct {
	db *sql.DB
}

func NewMySQLLedger(db *sql.DB) *MySQLLedger {
	return &MySQLLedger{db: db}
}

// EnsureSchema creates the ledger tables when they do not exist yet.
func (l *MySQLLedger) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_items (
			product_id          VARCHAR(64)  PRIMARY KEY,
			quantity            INT          NOT NULL,
			low_stock_threshold INT          NOT NULL DEFAULT 10,
			version             BIGINT       NOT NULL DEFAULT 0,
			created_at          DATETIME(6)  NOT NULL,
			updated_at          DATETIME(6)  NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS adjustment_events (
			id                VARCHAR(36)  PRIMARY KEY,
			product_id        VARCHAR(64)  NOT NULL,
			previous_quantity INT          NOT NULL,
			new_quantity      INT          NOT NULL,
			delta             INT          NOT NULL,
			kind              VARCHAR(16)  NOT NULL,
			reason            VARCHAR(255) NOT NULL,
			actor             VARCHAR(64)  NOT NULL,
			tag               VARCHAR(128) NULL,
			created_at        DATETIME(6)  NOT NULL,
			KEY idx_product_events (product_id, id),
			UNIQUE KEY idx_tag (tag)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (l *MySQLLedger) Get(ctx context.Context, productID string) (*domain.StockItem, error) {
	var item domain.StockItem
	err := l.db.QueryRowContext(ctx, `
		SELECT product_id, quantity, low_stock_threshold, version, created_at, updated_at
		FROM stock_items WHERE product_id = ?`, productID,
	).Scan(&item.ProductID, &item.Quantity, &item.LowStockThreshold, &item.Version,
		&item.CreatedAt, &item.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query stock item: %w", err)
	}
	return &item, nil
}

func (l *MySQLLedger) List(ctx context.Context) ([]domain.StockItem, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT product_id, quantity, low_stock_threshold, version, created_at, updated_at
		FROM stock_items ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	var items []domain.StockItem
	for rows.Next() {
		var item domain.StockItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.LowStockThreshold,
			&item.Version, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (l *MySQLLedger) Provision(ctx context.Context, productID string, lowStockThreshold int) error {
	if lowStockThreshold < 0 {
		lowStockThreshold = domain.DefaultLowStockThreshold
	}
	now := time.Now().UTC()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO stock_items (product_id, quantity, low_stock_threshold, version, created_at, updated_at)
		VALUES (?, 0, ?, 0, ?, ?)`,
		productID, lowStockThreshold, now, now,
	)
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return domain.ErrAlreadyProvisioned
	}
	if err != nil {
		return fmt.Errorf("provision stock item: %w", err)
	}
	return nil
}

// History pages events newest-first. The UUIDv7 event id is time-ordered,
// so keyset pagination on id < cursor is stable under concurrent appends.
func (l *MySQLLedger) History(ctx context.Context, productID, cursor string, limit int) ([]domain.AdjustmentEvent, string, error) {
	if limit < 1 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}

	query := `
		SELECT id, product_id, previous_quantity, new_quantity, delta, kind, reason, actor, tag, created_at
		FROM adjustment_events WHERE product_id = ?`
	args := []interface{}{productID}
	if cursor != "" {
		query += ` AND id < ?`
		args = append(args, cursor)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var events []domain.AdjustmentEvent
	for rows.Next() {
		var e domain.AdjustmentEvent
		var tag sql.NullString
		if err := rows.Scan(&e.ID, &e.ProductID, &e.PreviousQuantity, &e.NewQuantity,
			&e.Delta, &e.Kind, &e.Reason, &e.Actor, &tag, &e.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("scan event: %w", err)
		}
		e.Tag = tag.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(events) > limit {
		events = events[:limit]
		nextCursor = events[limit-1].ID
	}
	return events, nextCursor, nil
}

func (l *MySQLLedger) EventByTag(ctx context.Context, tag string) (*domain.AdjustmentEvent, error) {
	var e domain.AdjustmentEvent
	var eventTag sql.NullString
	err := l.db.QueryRowContext(ctx, `
		SELECT id, product_id, previous_quantity, new_quantity, delta, kind, reason, actor, tag, created_at
		FROM adjustment_events WHERE tag = ?`, tag,
	).Scan(&e.ID, &e.ProductID, &e.PreviousQuantity, &e.NewQuantity,
		&e.Delta, &e.Kind, &e.Reason, &e.Actor, &eventTag, &e.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query event by tag: %w", err)
	}
	e.Tag = eventTag.String
	return &e, nil
}

// CompareAndWrite is the ledger's single write primitive. The UPDATE is
// conditional on the version read by the caller; zero affected rows means a
// concurrent writer won, and the transaction rolls back with no event
// appended.
func (l *MySQLLedger) CompareAndWrite(ctx context.Context, productID string, expectedVersion int64, newQuantity int, event domain.AdjustmentEvent) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE stock_items
		SET quantity = ?, version = version + 1, updated_at = ?
		WHERE product_id = ? AND version = ?`,
		newQuantity, time.Now().UTC(), productID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConflict
	}

	tag := sql.NullString{String: event.Tag, Valid: event.Tag != ""}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO adjustment_events
			(id, product_id, previous_quantity, new_quantity, delta, kind, reason, actor, tag, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.ProductID, event.PreviousQuantity, event.NewQuantity,
		event.Delta, event.Kind, event.Reason, event.Actor, tag, event.CreatedAt,
	)
	if err != nil {
		// The unique tag index makes the duplicate check part of the
		// commit itself; the counter update above rolls back with it.
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return domain.ErrDuplicateTag
		}
		return fmt.Errorf("append event: %w", err)
	}

	return tx.Commit()
}
