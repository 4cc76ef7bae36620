package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"buddymatch/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

const accountCols = `
	id, email, password_hash,
	name, avatar_url, city, lat, lng,
	experience, availability, safety_pledged_at,
	created_at, updated_at`

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+accountCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.Name,
		a.AvatarURL,
		a.City,
		a.Lat,
		a.Lng,
		a.Experience,
		a.Availability,
		a.SafetyPledgedAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	// unique_violation sobre email => carrera entre el pre-chequeo y el INSERT
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return accounts.ErrEmailTaken
	}
	return err
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM users WHERE id = $1
	`, id))
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM users WHERE email = $1
	`, email))
}

func (r *AccountsRepo) Update(ctx context.Context, a accounts.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			email = $2,
			password_hash = $3,
			name = $4,
			avatar_url = $5,
			city = $6,
			lat = $7,
			lng = $8,
			experience = $9,
			availability = $10,
			safety_pledged_at = $11,
			updated_at = $12
		WHERE id = $1
	`,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.Name,
		a.AvatarURL,
		a.City,
		a.Lat,
		a.Lng,
		a.Experience,
		a.Availability,
		a.SafetyPledgedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func (r *AccountsRepo) ListWithCoords(ctx context.Context, excludeID string) ([]accounts.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+accountCols+`
		FROM users
		WHERE id <> $1 AND lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY created_at ASC
	`, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accounts.Account, 0)
	for rows.Next() {
		a, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountsRepo) AddFriend(ctx context.Context, userID, otherID string) error {
	a, b := orderedPair(userID, otherID)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO friendships (user_a, user_b)
		VALUES ($1, $2)
		ON CONFLICT (user_a, user_b) DO NOTHING
	`, a, b)
	return err
}

func (r *AccountsRepo) RemoveFriend(ctx context.Context, userID, otherID string) error {
	a, b := orderedPair(userID, otherID)
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM friendships WHERE user_a = $1 AND user_b = $2
	`, a, b)
	return err
}

func (r *AccountsRepo) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	a, b := orderedPair(userID, otherID)
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM friendships WHERE user_a = $1 AND user_b = $2
	`, a, b).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AccountsRepo) scanOne(row rowScanner) (accounts.Account, error) {
	var a accounts.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.AvatarURL,
		&a.City,
		&a.Lat,
		&a.Lng,
		&a.Experience,
		&a.Availability,
		&a.SafetyPledgedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return accounts.Account{}, accounts.ErrNotFound
	}
	if err != nil {
		return accounts.Account{}, err
	}
	return a, nil
}

// orderedPair canonicaliza el par para la fila única de friendships.
func orderedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
