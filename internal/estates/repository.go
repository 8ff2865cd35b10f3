package estates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

// DB es lo mínimo que el repositorio necesita de pgxpool.Pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository accede a la tabla estate (y lee medidas de chair para recomendar).
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de inmuebles.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const estateColumns = `id, thumbnail, name, description, latitude, longitude, address, rent, door_height, door_width, features, popularity`

// Una silla entra si alguna de sus caras (en cualquiera de los dos sentidos)
// pasa por la puerta: 3 pares de medidas x 2 orientaciones.
const fitsChairQuery = `
	SELECT ` + estateColumns + ` FROM estate
	WHERE (door_width >= $1 AND door_height >= $2)
	   OR (door_width >= $3 AND door_height >= $4)
	   OR (door_width >= $5 AND door_height >= $6)
	   OR (door_width >= $7 AND door_height >= $8)
	   OR (door_width >= $9 AND door_height >= $10)
	   OR (door_width >= $11 AND door_height >= $12)
	ORDER BY popularity DESC, id ASC
	LIMIT $13`

func scanEstate(row pgx.Row) (Estate, error) {
	var estate Estate
	err := row.Scan(
		&estate.ID, &estate.Thumbnail, &estate.Name, &estate.Description,
		&estate.Latitude, &estate.Longitude, &estate.Address,
		&estate.Rent, &estate.DoorHeight, &estate.DoorWidth, &estate.Features, &estate.Popularity,
	)
	return estate, err
}

func (repository *Repository) list(ctx context.Context, sql string, args ...any) ([]Estate, error) {
	rows, err := repository.database.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Estate, 0)
	for rows.Next() {
		estate, err := scanEstate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, estate)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count devuelve cuántos inmuebles cumplen el filtro.
func (repository *Repository) Count(ctx context.Context, query search.Query) (int64, error) {
	var count int64
	err := repository.database.QueryRow(ctx, `SELECT COUNT(*) FROM estate WHERE `+query.Where, query.Args...).Scan(&count)
	return count, err
}

// Search devuelve una página del filtro ordenada por popularidad, id ASC.
func (repository *Repository) Search(ctx context.Context, query search.Query, page search.Page) ([]Estate, error) {
	limit, args := query.Paginate(page)
	sql := `SELECT ` + estateColumns + ` FROM estate WHERE ` + query.Where + ` ORDER BY popularity DESC, id ASC` + limit
	return repository.list(ctx, sql, args...)
}

// LowPriced devuelve los inmuebles de menor alquiler.
func (repository *Repository) LowPriced(ctx context.Context, limit int) ([]Estate, error) {
	const query = `SELECT ` + estateColumns + ` FROM estate ORDER BY rent ASC, id ASC LIMIT $1`
	return repository.list(ctx, query, limit)
}

// Popular devuelve los inmuebles más populares.
func (repository *Repository) Popular(ctx context.Context, limit int) ([]Estate, error) {
	const query = `SELECT ` + estateColumns + ` FROM estate ORDER BY popularity DESC, id ASC LIMIT $1`
	return repository.list(ctx, query, limit)
}

// Get devuelve un inmueble y suma una vista a su popularidad.
func (repository *Repository) Get(ctx context.Context, id int64) (Estate, error) {
	const query = `UPDATE estate SET popularity = popularity + 1 WHERE id = $1 RETURNING ` + estateColumns

	estate, err := scanEstate(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Estate{}, ErrorNotFound
		}
		return Estate{}, err
	}
	return estate, nil
}

// Exists indica si el inmueble existe, sin tocar su popularidad.
func (repository *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := repository.database.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM estate WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ChairSize lee las medidas de una silla, tenga o no stock.
func (repository *Repository) ChairSize(ctx context.Context, chairID int64) (ChairSize, error) {
	var size ChairSize
	err := repository.database.QueryRow(ctx, `SELECT width, height, depth FROM chair WHERE id = $1`, chairID).
		Scan(&size.Width, &size.Height, &size.Depth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChairSize{}, ErrorChairNotFound
		}
		return ChairSize{}, err
	}
	return size, nil
}

// FitsChair devuelve los inmuebles cuya puerta admite la silla en alguna orientación.
func (repository *Repository) FitsChair(ctx context.Context, size ChairSize, limit int) ([]Estate, error) {
	w, h, d := size.Width, size.Height, size.Depth
	return repository.list(ctx, fitsChairQuery,
		w, h,
		w, d,
		h, w,
		h, d,
		d, w,
		d, h,
		limit,
	)
}
