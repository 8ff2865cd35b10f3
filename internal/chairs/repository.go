package chairs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

// DB es lo mínimo que el repositorio necesita de pgxpool.Pool.
// Permite testear con fakes sin levantar Postgres.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository accede a la tabla chair.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de sillas.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const chairColumns = `id, name, description, thumbnail, price, height, width, depth, color, features, kind, popularity, stock`

func scanChair(row pgx.Row) (Chair, error) {
	var chair Chair
	err := row.Scan(
		&chair.ID, &chair.Name, &chair.Description, &chair.Thumbnail,
		&chair.Price, &chair.Height, &chair.Width, &chair.Depth,
		&chair.Color, &chair.Features, &chair.Kind, &chair.Popularity, &chair.Stock,
	)
	return chair, err
}

// list ejecuta una query de varias filas y cierra rows en todos los caminos.
func (repository *Repository) list(ctx context.Context, sql string, args ...any) ([]Chair, error) {
	rows, err := repository.database.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Chair, 0)
	for rows.Next() {
		chair, err := scanChair(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, chair)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count devuelve cuántas sillas cumplen el filtro, sin paginar.
func (repository *Repository) Count(ctx context.Context, query search.Query) (int64, error) {
	var count int64
	err := repository.database.QueryRow(ctx, `SELECT COUNT(*) FROM chair WHERE `+query.Where, query.Args...).Scan(&count)
	return count, err
}

// Search devuelve una página del filtro ordenada por popularidad.
// id ASC desempata para que la paginación sea determinística.
func (repository *Repository) Search(ctx context.Context, query search.Query, page search.Page) ([]Chair, error) {
	limit, args := query.Paginate(page)
	sql := `SELECT ` + chairColumns + ` FROM chair WHERE ` + query.Where + ` ORDER BY popularity DESC, id ASC` + limit
	return repository.list(ctx, sql, args...)
}

// LowPriced devuelve las sillas con stock más baratas.
func (repository *Repository) LowPriced(ctx context.Context, limit int) ([]Chair, error) {
	const query = `SELECT ` + chairColumns + ` FROM chair WHERE stock > 0 ORDER BY price ASC, id ASC LIMIT $1`
	return repository.list(ctx, query, limit)
}

// Popular devuelve las sillas con stock más populares.
func (repository *Repository) Popular(ctx context.Context, limit int) ([]Chair, error) {
	const query = `SELECT ` + chairColumns + ` FROM chair WHERE stock > 0 ORDER BY popularity DESC, id ASC LIMIT $1`
	return repository.list(ctx, query, limit)
}

// GetAvailable devuelve una silla con stock y suma una vista a su popularidad.
// Una silla inexistente o sin stock es ErrorNotFound.
func (repository *Repository) GetAvailable(ctx context.Context, id int64) (Chair, error) {
	const query = `
		UPDATE chair SET popularity = popularity + 1
		WHERE id = $1 AND stock > 0
		RETURNING ` + chairColumns

	chair, err := scanChair(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Chair{}, ErrorNotFound
		}
		return Chair{}, err
	}
	return chair, nil
}

// Buy descuenta una unidad de stock dentro de una transacción.
// SELECT ... FOR UPDATE serializa compras concurrentes de la misma silla.
func (repository *Repository) Buy(ctx context.Context, id int64) error {
	tx, err := repository.database.Begin(ctx)
	if err != nil {
		return err
	}
	// Después de Commit es un no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	var stock int64
	err = tx.QueryRow(ctx, `SELECT stock FROM chair WHERE id = $1 FOR UPDATE`, id).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrorNotFound
		}
		return err
	}
	if stock <= 0 {
		return ErrorNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE chair SET stock = stock - 1 WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
