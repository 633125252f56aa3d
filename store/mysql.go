package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"
)

const (
	eventTable  = "events"
	ticketTable = "tickets"
	escrowTable = "escrow_balances"
	metaTable   = "ledger_meta"
	metaRowID   = 1
)

// ErrVersionConflict means another writer committed to the same store since
// this process loaded it.
var ErrVersionConflict = errors.New("ledger version conflict")

var eventCols = []string{"event_id", "position", "owner", "name", "description", "start_timestamp", "status", "ticket_ids"}
var eventUpdateCols = []string{"owner", "name", "description", "start_timestamp", "status", "ticket_ids"}
var ticketCols = []string{"ticket_id", "event_id", "seat_id", "owner", "price", "is_for_sale", "is_payed_for"}
var ticketUpdateCols = []string{"owner", "price", "is_for_sale", "is_payed_for"}
var escrowCols = []string{"identity", "pending"}
var metaCols = []string{"version", "total_received", "total_withdrawn"}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		event_id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		position INT NOT NULL,
		owner VARCHAR(128) NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		start_timestamp BIGINT NOT NULL,
		status TINYINT UNSIGNED NOT NULL,
		ticket_ids TEXT NOT NULL,
		UNIQUE KEY events_position (position)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		ticket_id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		event_id BIGINT UNSIGNED NOT NULL,
		seat_id VARCHAR(64) NOT NULL,
		owner VARCHAR(128) NOT NULL,
		price BIGINT UNSIGNED NOT NULL,
		is_for_sale BOOLEAN NOT NULL,
		is_payed_for BOOLEAN NOT NULL,
		KEY tickets_owner (owner),
		UNIQUE KEY tickets_seat (event_id, seat_id)
	)`,
	`CREATE TABLE IF NOT EXISTS escrow_balances (
		identity VARCHAR(128) NOT NULL PRIMARY KEY,
		pending BIGINT UNSIGNED NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_meta (
		id TINYINT UNSIGNED NOT NULL PRIMARY KEY,
		version BIGINT UNSIGNED NOT NULL,
		total_received BIGINT UNSIGNED NOT NULL,
		total_withdrawn BIGINT UNSIGNED NOT NULL
	)`,
	`INSERT IGNORE INTO ledger_meta (id, version, total_received, total_withdrawn) VALUES (1, 0, 0, 0)`,
}

// NewMySQL returns a store over db. The caller owns db.
func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

type MySQL struct {
	db *sql.DB
}

// Migrate creates the ledger tables if they do not exist.
func (m *MySQL) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: error applying schema: %w", err)
		}
	}
	return nil
}

func (m *MySQL) Load(ctx context.Context) (*ledger.State, error) {
	var c ledger.Changes

	err := m.db.QueryRowContext(ctx, `SELECT version, total_received, total_withdrawn FROM ledger_meta WHERE id = ?`, metaRowID).
		Scan(&c.Version, &c.Totals.Received, &c.Totals.Withdrawn)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("load: error reading ledger meta: %w", err)
	}

	if c.Events, err = fetchEvents(ctx, m.db); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	for _, e := range c.Events {
		c.Appended = append(c.Appended, e.ID)
	}
	if c.Tickets, err = fetchTickets(ctx, m.db); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if c.Balances, err = fetchBalances(ctx, m.db); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	s := ledger.NewState()
	s.Apply(c)
	return s, nil
}

// Commit writes c in one transaction. The meta row update doubles as a
// compare-and-swap on the ledger version.
func (m *MySQL) Commit(ctx context.Context, c ledger.Changes) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit: error begining db transaction: %w", err)
	}

	if err := writeChanges(ctx, tx, c); err != nil {
		tx.Rollback()
		return fmt.Errorf("commit: version %d: %w", c.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: could not commit version %d: %w", c.Version, err)
	}
	return nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}

func writeChanges(ctx context.Context, tx *sql.Tx, c ledger.Changes) error {
	updatedRows, err := update(ctx, tx, metaTable, metaCols,
		[]interface{}{c.Version, c.Totals.Received, c.Totals.Withdrawn},
		[]string{"id", "version"},
		[]interface{}{metaRowID, c.Version - 1},
	)
	if err != nil {
		return err
	}
	if updatedRows == 0 {
		return ErrVersionConflict
	}

	for _, e := range c.Events {
		ids, err := json.Marshal(e.TicketIDs)
		if err != nil {
			return fmt.Errorf("writeChanges: error encoding ticket ids of event %d: %w", e.ID, err)
		}
		values := []interface{}{string(e.Owner), e.Name, e.Description, e.StartTimestamp, uint8(e.Status), string(ids)}

		pos, appended := c.Position(e.ID)
		if appended {
			if err := create(ctx, tx, eventTable, eventCols, append([]interface{}{e.ID, pos}, values...)); err != nil {
				return err
			}
			continue
		}
		updatedRows, err := update(ctx, tx, eventTable, eventUpdateCols, values, []string{"event_id"}, []interface{}{e.ID})
		if err != nil {
			return err
		}
		if updatedRows == 0 {
			return fmt.Errorf("writeChanges: event %d not found", e.ID)
		}
	}

	for _, t := range c.Tickets {
		values := []interface{}{t.ID, t.EventID, t.SeatID, string(t.Owner), t.Price, t.IsForSale, t.IsPayedFor}
		if err := upsert(ctx, tx, ticketTable, ticketCols, values, ticketUpdateCols); err != nil {
			return err
		}
	}

	for identity, pending := range c.Balances {
		values := []interface{}{string(identity), pending}
		if err := upsert(ctx, tx, escrowTable, escrowCols, values, []string{"pending"}); err != nil {
			return err
		}
	}

	return nil
}

func fetchEvents(ctx context.Context, db *sql.DB) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT event_id, owner, name, description, start_timestamp, status, ticket_ids FROM events ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("fetchEvents: error executing query: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var (
			e      model.Event
			owner  string
			status uint8
			ids    string
		)
		if err := rows.Scan(&e.ID, &owner, &e.Name, &e.Description, &e.StartTimestamp, &status, &ids); err != nil {
			return nil, fmt.Errorf("fetchEvents: error while scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &e.TicketIDs); err != nil {
			return nil, fmt.Errorf("fetchEvents: error decoding ticket ids of event %d: %w", e.ID, err)
		}
		e.Owner = model.Identity(owner)
		e.Status = model.EventStatus(status)
		events = append(events, e)
	}
	return events, rows.Err()
}

func fetchTickets(ctx context.Context, db *sql.DB) ([]model.Ticket, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ticket_id, event_id, seat_id, owner, price, is_for_sale, is_payed_for FROM tickets`)
	if err != nil {
		return nil, fmt.Errorf("fetchTickets: error executing query: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var (
			t     model.Ticket
			owner string
		)
		if err := rows.Scan(&t.ID, &t.EventID, &t.SeatID, &owner, &t.Price, &t.IsForSale, &t.IsPayedFor); err != nil {
			return nil, fmt.Errorf("fetchTickets: error while scanning row: %w", err)
		}
		t.Owner = model.Identity(owner)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func fetchBalances(ctx context.Context, db *sql.DB) (map[model.Identity]uint64, error) {
	rows, err := db.QueryContext(ctx, `SELECT identity, pending FROM escrow_balances`)
	if err != nil {
		return nil, fmt.Errorf("fetchBalances: error executing query: %w", err)
	}
	defer rows.Close()

	balances := make(map[model.Identity]uint64)
	for rows.Next() {
		var (
			identity string
			pending  uint64
		)
		if err := rows.Scan(&identity, &pending); err != nil {
			return nil, fmt.Errorf("fetchBalances: error while scanning row: %w", err)
		}
		balances[model.Identity(identity)] = pending
	}
	return balances, rows.Err()
}

func create(ctx context.Context, tx *sql.Tx, table string, cols []string, values []interface{}) error {
	var params []string
	for range cols {
		params = append(params, "?")
	}

	tsql := fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s);`, table, strings.Join(cols, ", "), strings.Join(params, ", "))

	stmt, err := tx.PrepareContext(ctx, tsql)
	if err != nil {
		return fmt.Errorf("create: error preparing sql query: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, values...); err != nil {
		return fmt.Errorf("create: unable to insert record in %s: %w", table, err)
	}
	return nil
}

func upsert(ctx context.Context, tx *sql.Tx, table string, cols []string, values []interface{}, updateCols []string) error {
	tsql := upsertQuery(table, cols, updateCols)

	stmt, err := tx.PrepareContext(ctx, tsql)
	if err != nil {
		return fmt.Errorf("upsert: error preparing sql query: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, values...); err != nil {
		return fmt.Errorf("upsert: unable to write record in %s: %w", table, err)
	}
	return nil
}

func update(ctx context.Context, tx *sql.Tx, table string, cols []string, values []interface{}, column []string, value []interface{}) (int64, error) {
	tsql := updateQuery(table, cols, column)

	stmt, err := tx.PrepareContext(ctx, tsql)
	if err != nil {
		return -1, fmt.Errorf("update: error preparing sql query: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, append(values, value...)...)
	if err != nil {
		return -1, fmt.Errorf("update: unable to update record in %s: %w", table, err)
	}

	return result.RowsAffected()
}

func upsertQuery(table string, cols []string, updateCols []string) string {
	var params []string
	for range cols {
		params = append(params, "?")
	}

	var set []string
	for _, col := range updateCols {
		set = append(set, fmt.Sprintf("%s = VALUES(%s)", col, col))
	}

	return fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s;`,
		table, strings.Join(cols, ", "), strings.Join(params, ", "), strings.Join(set, ", "))
}

func updateQuery(table string, cols []string, column []string) string {
	var set []string
	for _, col := range cols {
		set = append(set, fmt.Sprintf("%s = ?", col))
	}

	var conds []string
	for _, c := range column {
		conds = append(conds, fmt.Sprintf("%s = ?", c))
	}

	return fmt.Sprintf(`UPDATE %s SET %s WHERE %s;`, table, strings.Join(set, ", "), strings.Join(conds, " AND "))
}
