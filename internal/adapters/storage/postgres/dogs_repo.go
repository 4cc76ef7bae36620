package postgres

import (
	"context"
	"database/sql"

	"buddymatch/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

const dogCols = `
	id, owner_id, name, size,
	age, breed, reactivity_tags, triggers,
	created_at, updated_at`

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (`+dogCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		d.ID,
		d.OwnerID,
		d.Name,
		string(d.Size),
		d.Age,
		d.Breed,
		d.ReactivityTags,
		d.Triggers,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+dogCols+` FROM dogs WHERE id = $1
	`, id)
	return scanDog(row)
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2,
			size = $3,
			age = $4,
			breed = $5,
			reactivity_tags = $6,
			triggers = $7,
			updated_at = $8
		WHERE id = $1
	`,
		d.ID,
		d.Name,
		string(d.Size),
		d.Age,
		d.Breed,
		d.ReactivityTags,
		d.Triggers,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) ListByOwner(ctx context.Context, ownerID string) ([]dogs.Dog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+dogCols+`
		FROM dogs
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDog(row rowScanner) (dogs.Dog, error) {
	var (
		d    dogs.Dog
		size string
	)
	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Name,
		&size,
		&d.Age,
		&d.Breed,
		&d.ReactivityTags,
		&d.Triggers,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	if err != nil {
		return dogs.Dog{}, err
	}
	d.Size = dogs.Size(size)
	return d, nil
}
