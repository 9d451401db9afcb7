package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/batipro-erp/batipro-erp/internal/platform/db"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Material, error)
	List(ctx context.Context) ([]Material, error)
	ListBelowThreshold(ctx context.Context) ([]Material, error)
	Create(ctx context.Context, m Material) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Move(ctx context.Context, materialID int64, typ MovementType, quantity float64, reason string) error
	MoveBatch(ctx context.Context, deductions []Deduction) error
	ListMovements(ctx context.Context, materialID int64, limit int) ([]Movement, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const materialColumns = `id, code, name, unit, stock_quantity, alert_threshold, unit_cost, created_at, updated_at`

func scanMaterial(row pgx.Row) (*Material, error) {
	var m Material
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.StockQuantity, &m.AlertThreshold, &m.UnitCost, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM materials WHERE id = $1`, materialColumns)
	return scanMaterial(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) List(ctx context.Context) ([]Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM materials ORDER BY name, id`, materialColumns)
	return r.queryMaterials(ctx, query)
}

func (r *repository) ListBelowThreshold(ctx context.Context) ([]Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM materials WHERE stock_quantity < alert_threshold ORDER BY name, id`, materialColumns)
	return r.queryMaterials(ctx, query)
}

func (r *repository) queryMaterials(ctx context.Context, query string, args ...interface{}) ([]Material, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.StockQuantity, &m.AlertThreshold, &m.UnitCost, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, m Material) (int64, error) {
	query := `
		INSERT INTO materials (code, name, unit, stock_quantity, alert_threshold, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, m.Code, m.Name, m.Unit, m.AlertThreshold, m.UnitCost).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("material code %s: %w", m.Code, shared.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	sets := "updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for col, val := range updates {
		sets += fmt.Sprintf(", %s = $%d", col, argPos)
		args = append(args, val)
		argPos++
	}
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`UPDATE materials SET %s WHERE id = $%d`, sets, argPos), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Move applies one stock movement and appends the ledger entry in a
// single transaction.
func (r *repository) Move(ctx context.Context, materialID int64, typ MovementType, quantity float64, reason string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return applyMovement(ctx, tx, materialID, typ, quantity, reason)
	})
}

// MoveBatch consumes several materials atomically; one shortage fails
// the whole batch.
func (r *repository) MoveBatch(ctx context.Context, deductions []Deduction) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, d := range deductions {
			if err := applyMovement(ctx, tx, d.MaterialID, MovementOut, d.Quantity, d.Reason); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyMovement(ctx context.Context, tx pgx.Tx, materialID int64, typ MovementType, quantity float64, reason string) error {
	delta := quantity
	if typ == MovementOut {
		delta = -quantity
	}

	var stock float64
	err := tx.QueryRow(ctx,
		`UPDATE materials SET stock_quantity = stock_quantity + $1, updated_at = NOW() WHERE id = $2 RETURNING stock_quantity`,
		delta, materialID,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("material %d: %w", materialID, shared.ErrNotFound)
		}
		return err
	}
	if stock < 0 {
		return fmt.Errorf("material %d (%s): %w", materialID, reason, shared.ErrInsufficientStock)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO material_movements (material_id, type, quantity, reason, created_at) VALUES ($1, $2, $3, $4, NOW())`,
		materialID, typ, quantity, reason,
	)
	return err
}

func (r *repository) ListMovements(ctx context.Context, materialID int64, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, material_id, type, quantity, reason, created_at
		 FROM material_movements WHERE material_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2`,
		materialID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var mv Movement
		if err := rows.Scan(&mv.ID, &mv.MaterialID, &mv.Type, &mv.Quantity, &mv.Reason, &mv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, mv)
	}
	return out, rows.Err()
}
