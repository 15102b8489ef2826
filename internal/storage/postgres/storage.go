package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/ordertrack/internal/domain/errors"
	"github.com/polkiloo/ordertrack/internal/domain/model"
	"github.com/polkiloo/ordertrack/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

var _ repository.Factory = (*Storage)(nil)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres storage ready")
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            order_id TEXT UNIQUE NOT NULL,
            items TEXT[] NOT NULL,
            stage TEXT NOT NULL,
            buyer_id BIGINT REFERENCES users(id),
            seller_id BIGINT REFERENCES users(id),
            placed_by BIGINT NOT NULL REFERENCES users(id),
            stage_timestamps JSONB NOT NULL,
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS action_logs (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            action TEXT NOT NULL,
            actor_id BIGINT NOT NULL,
            actor_name TEXT NOT NULL,
            actor_role TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_action_logs_order ON action_logs(order_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

const userColumns = `id, name, email, password_hash, role, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	const query = `INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, string(user.Role)).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.storage.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.storage.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

// --- OrderRepository implementation ---

const orderColumns = `id, order_id, items, stage, buyer_id, seller_id, placed_by, stage_timestamps, version, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o          model.Order
		stage      string
		timestamps []byte
	)
	err := row.Scan(&o.ID, &o.OrderID, &o.Items, &stage, &o.BuyerID, &o.SellerID, &o.PlacedBy, &timestamps, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if o.Stage, err = model.ParseStage(stage); err != nil {
		return nil, fmt.Errorf("order %d: %w", o.ID, err)
	}
	if err := json.Unmarshal(timestamps, &o.StageTimestamps); err != nil {
		return nil, fmt.Errorf("order %d: decode stage timestamps: %w", o.ID, err)
	}
	return &o, nil
}

func encodeTimestamps(ts model.StageTimestamps) ([]byte, error) {
	data, err := json.Marshal(ts)
	if err != nil {
		return nil, fmt.Errorf("encode stage timestamps: %w", err)
	}
	return data, nil
}

func insertLog(ctx context.Context, tx pgx.Tx, orderID int64, entry model.ActionLogEntry) error {
	const query = `INSERT INTO action_logs (order_id, action, actor_id, actor_name, actor_role, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.Exec(ctx, query, orderID, entry.Action, entry.Actor.ID, entry.Actor.Name, string(entry.Actor.Role), entry.Timestamp)
	return err
}

func (r *orderRepository) NextKey(ctx context.Context) (int64, error) {
	var key int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('orders', 'id'))`).Scan(&key); err != nil {
		return 0, fmt.Errorf("reserve order key: %w", err)
	}
	return key, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, entry model.ActionLogEntry) error {
	timestamps, err := encodeTimestamps(order.StageTimestamps)
	if err != nil {
		return err
	}

	const query = `INSERT INTO orders (id, order_id, items, stage, buyer_id, seller_id, placed_by, stage_timestamps, version, created_at, updated_at)
                   VALUES (COALESCE(NULLIF($1::bigint, 0), nextval(pg_get_serial_sequence('orders', 'id'))), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                   RETURNING id`
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, query, order.ID, order.OrderID, order.Items, order.Stage.String(), order.BuyerID, order.SellerID,
			order.PlacedBy, timestamps, order.Version, order.CreatedAt, order.UpdatedAt).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}
		if err := insertLog(ctx, tx, id, entry); err != nil {
			return err
		}
		order.ID = id
		return nil
	})
}

func (r *orderRepository) Get(ctx context.Context, id int64) (*model.Order, error) {
	return scanOrder(r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
}

func lockOrder(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error) {
	return scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
}

func (r *orderRepository) Update(ctx context.Context, id int64, fn repository.Mutation) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		order, err := lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}

		entry, err := fn(order)
		if err != nil {
			return err
		}

		timestamps, err := encodeTimestamps(order.StageTimestamps)
		if err != nil {
			return err
		}

		const updateQuery = `UPDATE orders
                             SET stage=$2, buyer_id=$3, seller_id=$4, stage_timestamps=$5, version=$6, updated_at=$7
                             WHERE id=$1`
		if _, err := tx.Exec(ctx, updateQuery, id, order.Stage.String(), order.BuyerID, order.SellerID, timestamps, order.Version, order.UpdatedAt); err != nil {
			return err
		}
		if err := insertLog(ctx, tx, id, entry); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64, check func(*model.Order) error) (*model.Order, error) {
	var deleted *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		order, err := lockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := check(order); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM action_logs WHERE order_id=$1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id); err != nil {
			return err
		}
		deleted = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.BuyerID != nil {
		args = append(args, *filter.BuyerID)
		conditions = append(conditions, fmt.Sprintf("(placed_by=$%d OR buyer_id=$%d)", len(args), len(args)))
	}
	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		conditions = append(conditions, fmt.Sprintf("seller_id=$%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Logs(ctx context.Context, id int64) ([]model.ActionLogEntry, error) {
	const query = `SELECT id, order_id, action, actor_id, actor_name, actor_role, created_at
                   FROM action_logs WHERE order_id=$1 ORDER BY created_at, id`
	rows, err := r.storage.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ActionLogEntry
	for rows.Next() {
		var (
			e    model.ActionLogEntry
			role string
		)
		if err := rows.Scan(&e.ID, &e.OrderKey, &e.Action, &e.Actor.ID, &e.Actor.Name, &role, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Actor.Role = model.Role(role)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Every stored order has at least its placement entry.
	if len(result) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
