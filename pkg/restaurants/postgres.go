package restaurants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Conns hands out the primary for writes and a replica for reads.
// postgres.ConnectionManager satisfies it.
type Conns interface {
	Primary() *sql.DB
	Replica() *sql.DB
}

type singleConn struct {
	db *sql.DB
}

func (c singleConn) Primary() *sql.DB { return c.db }
func (c singleConn) Replica() *sql.DB { return c.db }

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	conns Conns
}

// NewPostgresStore creates a PostgresStore that reads and writes through db
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{conns: singleConn{db: db}}
}

// NewPostgresStoreWithConns creates a PostgresStore that routes reads to replicas
func NewPostgresStoreWithConns(conns Conns) *PostgresStore {
	return &PostgresStore{conns: conns}
}

const restaurantColumns = `r.id, r.name, r.description, r.created_at, r.updated_at`

const menuColumns = `m.id, m.restaurant_id, m.name, m.start_time, m.end_time, m.created_at, m.updated_at`

const itemColumns = `i.id, i.menu_id, i.display_name, i.short_name, i.description, i.price, i.is_available, i.created_at, i.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRestaurant(row rowScanner) (*Restaurant, error) {
	r := &Restaurant{}
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return r, nil
}

func scanMenu(row rowScanner) (*Menu, error) {
	m := &Menu{}
	var start, end sql.NullString
	if err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &start, &end, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.StartTime = nullableString(start)
	m.EndTime = nullableString(end)
	return m, nil
}

func scanItem(row rowScanner) (*Item, error) {
	it := &Item{}
	err := row.Scan(&it.ID, &it.MenuID, &it.DisplayName, &it.ShortName, &it.Description,
		&it.Price, &it.IsAvailable, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ListRestaurants returns every restaurant
func (s *PostgresStore) ListRestaurants(ctx context.Context) ([]*Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants r ORDER BY r.created_at ASC`
	rows, err := s.conns.Replica().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()
	return collectRestaurants(rows)
}

// ListRestaurantsByOwner returns the restaurants userID owns
func (s *PostgresStore) ListRestaurantsByOwner(ctx context.Context, userID string) ([]*Restaurant, error) {
	query := `
		SELECT ` + restaurantColumns + `
		FROM restaurants r
		JOIN restaurant_owners o ON o.restaurant_id = r.id
		WHERE o.user_id = $1
		ORDER BY r.created_at ASC
	`
	rows, err := s.conns.Replica().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned restaurants: %w", err)
	}
	defer rows.Close()
	return collectRestaurants(rows)
}

func collectRestaurants(rows *sql.Rows) ([]*Restaurant, error) {
	out := []*Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate restaurants: %w", err)
	}
	return out, nil
}

// GetRestaurant retrieves a restaurant by ID
func (s *PostgresStore) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants r WHERE r.id = $1`
	r, err := scanRestaurant(s.conns.Replica().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return r, nil
}

// CreateRestaurant inserts the restaurant and its first owner link in one transaction
func (s *PostgresStore) CreateRestaurant(ctx context.Context, r *Restaurant, ownerID string) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	tx, err := s.conns.Primary().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	err = tx.QueryRowContext(ctx, `
		INSERT INTO restaurants (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, r.ID, r.Name, r.Description).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO restaurant_owners (restaurant_id, user_id) VALUES ($1, $2)`,
		r.ID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to link restaurant owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateRestaurant applies the non-nil fields of updates
func (s *PostgresStore) UpdateRestaurant(ctx context.Context, id string, updates *UpdateRestaurantRequest) (*Restaurant, error) {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if updates.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *updates.Name)
		argPos++
	}
	if updates.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *updates.Description)
		argPos++
	}

	if len(setClauses) == 0 {
		return s.GetRestaurant(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE restaurants r SET %s WHERE r.id = $%d RETURNING `+restaurantColumns,
		strings.Join(setClauses, ", "), argPos)

	r, err := scanRestaurant(s.conns.Primary().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	return r, nil
}

// DeleteRestaurant deletes a restaurant; owners, tables, menus and items cascade
func (s *PostgresStore) DeleteRestaurant(ctx context.Context, id string) error {
	return s.execDelete(ctx, "restaurant", `DELETE FROM restaurants WHERE id = $1`, id)
}

func (s *PostgresStore) execDelete(ctx context.Context, entity, query string, args ...interface{}) error {
	result, err := s.conns.Primary().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOwners returns the owner links of a restaurant
func (s *PostgresStore) ListOwners(ctx context.Context, restaurantID string) ([]*RestaurantOwner, error) {
	query := `
		SELECT restaurant_id, user_id, created_at
		FROM restaurant_owners
		WHERE restaurant_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.conns.Replica().QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	owners := []*RestaurantOwner{}
	for rows.Next() {
		o := &RestaurantOwner{}
		if err := rows.Scan(&o.RestaurantID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owners: %w", err)
	}
	return owners, nil
}

// AddOwner links userID to the restaurant; linking an existing owner returns the existing link
func (s *PostgresStore) AddOwner(ctx context.Context, restaurantID, userID string) (*RestaurantOwner, error) {
	query := `
		INSERT INTO restaurant_owners (restaurant_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (restaurant_id, user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING restaurant_id, user_id, created_at
	`
	o := &RestaurantOwner{}
	err := s.conns.Primary().QueryRowContext(ctx, query, restaurantID, userID).
		Scan(&o.RestaurantID, &o.UserID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner: %w", err)
	}
	return o, nil
}

// IsOwner reports whether userID owns the restaurant
func (s *PostgresStore) IsOwner(ctx context.Context, restaurantID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM restaurant_owners WHERE restaurant_id = $1 AND user_id = $2)`
	var exists bool
	if err := s.conns.Replica().QueryRowContext(ctx, query, restaurantID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check owner: %w", err)
	}
	return exists, nil
}

// ListMenus returns the menus of a restaurant
func (s *PostgresStore) ListMenus(ctx context.Context, restaurantID string) ([]*Menu, error) {
	query := `SELECT ` + menuColumns + ` FROM menus m WHERE m.restaurant_id = $1 ORDER BY m.created_at ASC`
	rows, err := s.conns.Replica().QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menus: %w", err)
	}
	defer rows.Close()

	menus := []*Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menus: %w", err)
	}
	return menus, nil
}

// GetMenu retrieves a menu and, when it still exists, its restaurant
func (s *PostgresStore) GetMenu(ctx context.Context, id string) (*Menu, error) {
	query := `
		SELECT ` + menuColumns + `,
		       r.id, r.name, r.description, r.created_at, r.updated_at
		FROM menus m
		LEFT JOIN restaurants r ON r.id = m.restaurant_id
		WHERE m.id = $1
	`
	m := &Menu{}
	var start, end sql.NullString
	var parent nullRestaurant
	err := s.conns.Replica().QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.RestaurantID, &m.Name, &start, &end, &m.CreatedAt, &m.UpdatedAt,
		&parent.id, &parent.name, &parent.description, &parent.createdAt, &parent.updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}
	m.StartTime = nullableString(start)
	m.EndTime = nullableString(end)
	m.Restaurant = parent.restaurant()
	return m, nil
}

// nullRestaurant receives the columns of a LEFT JOINed restaurant
type nullRestaurant struct {
	id, name, description sql.NullString
	createdAt, updatedAt  sql.NullTime
}

func (n nullRestaurant) restaurant() *Restaurant {
	if !n.id.Valid {
		return nil
	}
	return &Restaurant{
		ID:          n.id.String,
		Name:        n.name.String,
		Description: n.description.String,
		CreatedAt:   n.createdAt.Time,
		UpdatedAt:   n.updatedAt.Time,
	}
}

// nullMenu receives the columns of a LEFT JOINed menu
type nullMenu struct {
	id, restaurantID, name, startTime, endTime sql.NullString
	createdAt, updatedAt                       sql.NullTime
}

func (n nullMenu) menu() *Menu {
	if !n.id.Valid {
		return nil
	}
	return &Menu{
		ID:           n.id.String,
		RestaurantID: n.restaurantID.String,
		Name:         n.name.String,
		StartTime:    nullableString(n.startTime),
		EndTime:      nullableString(n.endTime),
		CreatedAt:    n.createdAt.Time,
		UpdatedAt:    n.updatedAt.Time,
	}
}

// CreateMenu inserts a menu
func (s *PostgresStore) CreateMenu(ctx context.Context, m *Menu) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query := `
		INSERT INTO menus (id, restaurant_id, name, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := s.conns.Primary().QueryRowContext(ctx, query, m.ID, m.RestaurantID, m.Name, m.StartTime, m.EndTime).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}
	return nil
}

// UpdateMenu applies the non-nil fields of updates
func (s *PostgresStore) UpdateMenu(ctx context.Context, id string, updates *UpdateMenuRequest) (*Menu, error) {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if updates.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *updates.Name)
		argPos++
	}
	if updates.StartTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_time = $%d", argPos))
		args = append(args, *updates.StartTime)
		argPos++
	}
	if updates.EndTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_time = $%d", argPos))
		args = append(args, *updates.EndTime)
		argPos++
	}

	if len(setClauses) == 0 {
		return s.GetMenu(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE menus m SET %s WHERE m.id = $%d RETURNING `+menuColumns,
		strings.Join(setClauses, ", "), argPos)

	m, err := scanMenu(s.conns.Primary().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update menu: %w", err)
	}
	return m, nil
}

// DeleteMenu deletes a menu and its items
func (s *PostgresStore) DeleteMenu(ctx context.Context, id string) error {
	return s.execDelete(ctx, "menu", `DELETE FROM menus WHERE id = $1`, id)
}

// ListItems returns the items of a menu
func (s *PostgresStore) ListItems(ctx context.Context, menuID string) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.menu_id = $1 ORDER BY i.created_at ASC`
	rows, err := s.conns.Replica().QueryContext(ctx, query, menuID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	items := []*Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// GetItem retrieves an item with its menu and restaurant in a single query
func (s *PostgresStore) GetItem(ctx context.Context, id string) (*Item, error) {
	query := `
		SELECT ` + itemColumns + `,
		       ` + menuColumns + `,
		       r.id, r.name, r.description, r.created_at, r.updated_at
		FROM items i
		LEFT JOIN menus m ON m.id = i.menu_id
		LEFT JOIN restaurants r ON r.id = m.restaurant_id
		WHERE i.id = $1
	`
	it := &Item{}
	var menu nullMenu
	var parent nullRestaurant
	err := s.conns.Replica().QueryRowContext(ctx, query, id).Scan(
		&it.ID, &it.MenuID, &it.DisplayName, &it.ShortName, &it.Description,
		&it.Price, &it.IsAvailable, &it.CreatedAt, &it.UpdatedAt,
		&menu.id, &menu.restaurantID, &menu.name, &menu.startTime, &menu.endTime, &menu.createdAt, &menu.updatedAt,
		&parent.id, &parent.name, &parent.description, &parent.createdAt, &parent.updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if m := menu.menu(); m != nil {
		m.Restaurant = parent.restaurant()
		it.Menu = m
	}
	return it, nil
}

// GetItemsForRestaurant returns the listed items that belong to a menu of restaurantID
func (s *PostgresStore) GetItemsForRestaurant(ctx context.Context, restaurantID string, ids []string) ([]*Item, error) {
	if len(ids) == 0 {
		return []*Item{}, nil
	}
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN menus m ON m.id = i.menu_id
		WHERE m.restaurant_id = $1 AND i.id = ANY($2)
		ORDER BY i.created_at ASC
	`
	rows, err := s.conns.Replica().QueryContext(ctx, query, restaurantID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// CreateItem inserts an item
func (s *PostgresStore) CreateItem(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := `
		INSERT INTO items (id, menu_id, display_name, short_name, description, price, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := s.conns.Primary().QueryRowContext(ctx, query, item.ID, item.MenuID, item.DisplayName,
		item.ShortName, item.Description, item.Price, item.IsAvailable).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// UpdateItem applies the non-nil fields of updates
func (s *PostgresStore) UpdateItem(ctx context.Context, id string, updates *UpdateItemRequest) (*Item, error) {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if updates.DisplayName != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_name = $%d", argPos))
		args = append(args, *updates.DisplayName)
		argPos++
	}
	if updates.ShortName != nil {
		setClauses = append(setClauses, fmt.Sprintf("short_name = $%d", argPos))
		args = append(args, *updates.ShortName)
		argPos++
	}
	if updates.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *updates.Description)
		argPos++
	}
	if updates.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", argPos))
		args = append(args, *updates.Price)
		argPos++
	}

	if len(setClauses) == 0 {
		it, err := s.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		it.Menu = nil
		return it, nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE items i SET %s WHERE i.id = $%d RETURNING `+itemColumns,
		strings.Join(setClauses, ", "), argPos)
	return s.updateItemRow(ctx, query, args...)
}

// SetItemAvailability marks an item available or unavailable
func (s *PostgresStore) SetItemAvailability(ctx context.Context, id string, available bool) (*Item, error) {
	query := `UPDATE items i SET is_available = $1, updated_at = NOW() WHERE i.id = $2 RETURNING ` + itemColumns
	return s.updateItemRow(ctx, query, available, id)
}

func (s *PostgresStore) updateItemRow(ctx context.Context, query string, args ...interface{}) (*Item, error) {
	it, err := scanItem(s.conns.Primary().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return it, nil
}

// DeleteItem deletes an item
func (s *PostgresStore) DeleteItem(ctx context.Context, id string) error {
	return s.execDelete(ctx, "item", `DELETE FROM items WHERE id = $1`, id)
}

// ListTables returns the tables of a restaurant
func (s *PostgresStore) ListTables(ctx context.Context, restaurantID string) ([]*RestaurantTable, error) {
	query := `
		SELECT id, restaurant_id, name, capacity, created_at
		FROM restaurant_tables
		WHERE restaurant_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.conns.Replica().QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := []*RestaurantTable{}
	for rows.Next() {
		t := &RestaurantTable{}
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Capacity, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}
	return tables, nil
}

// CreateTable inserts a table
func (s *PostgresStore) CreateTable(ctx context.Context, t *RestaurantTable) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
		INSERT INTO restaurant_tables (id, restaurant_id, name, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := s.conns.Primary().QueryRowContext(ctx, query, t.ID, t.RestaurantID, t.Name, t.Capacity).Scan(&t.CreatedAt); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// DeleteTable deletes a table of the restaurant
func (s *PostgresStore) DeleteTable(ctx context.Context, restaurantID, tableID string) error {
	return s.execDelete(ctx, "table",
		`DELETE FROM restaurant_tables WHERE id = $1 AND restaurant_id = $2`, tableID, restaurantID)
}
