package postgres

import (
	"context"
	"database/sql"
	"time"

	"buddymatch/internal/domain/posts"
)

type PostsRepo struct {
	db *sql.DB
}

func NewPostsRepo(db *sql.DB) *PostsRepo {
	return &PostsRepo{db: db}
}

const postCols = `
	p.id, p.author_id, p.title, p.body,
	p.location, p.lat, p.lng, p.meetup_at, p.preferred_size,
	p.created_at, p.updated_at`

const authorCols = `
	u.id, u.name, u.city, u.safety_pledged_at`

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (
			id, author_id, title, body,
			location, lat, lng, meetup_at, preferred_size,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.AuthorID,
		p.Title,
		p.Body,
		p.Location,
		p.Lat,
		p.Lng,
		p.MeetupAt,
		p.PreferredSize,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postCols+` FROM posts p WHERE p.id = $1
	`, id)

	var p posts.Post
	err := row.Scan(
		&p.ID,
		&p.AuthorID,
		&p.Title,
		&p.Body,
		&p.Location,
		&p.Lat,
		&p.Lng,
		&p.MeetupAt,
		&p.PreferredSize,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return posts.Post{}, posts.ErrNotFound
	}
	if err != nil {
		return posts.Post{}, err
	}
	return p, nil
}

func (r *PostsRepo) Update(ctx context.Context, p posts.Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET
			title = $2,
			body = $3,
			location = $4,
			lat = $5,
			lng = $6,
			meetup_at = $7,
			preferred_size = $8,
			updated_at = $9
		WHERE id = $1
	`,
		p.ID,
		p.Title,
		p.Body,
		p.Location,
		p.Lat,
		p.Lng,
		p.MeetupAt,
		p.PreferredSize,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *PostsRepo) List(ctx context.Context, search string) ([]posts.ListItem, error) {
	// meetup_at asc con nulls al final; los sin fecha, más nuevos primero.
	query := `
		SELECT ` + postCols + `, ` + authorCols + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE ($1 = '' OR p.title ILIKE '%' || $1 || '%'
			OR p.body ILIKE '%' || $1 || '%'
			OR p.location ILIKE '%' || $1 || '%')
		ORDER BY p.meetup_at ASC NULLS LAST, p.created_at DESC`
	return r.listItems(ctx, query, search)
}

func (r *PostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]posts.ListItem, error) {
	query := `
		SELECT ` + postCols + `, ` + authorCols + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC`
	return r.listItems(ctx, query, authorID)
}

func (r *PostsRepo) GetDetail(ctx context.Context, id string) (posts.Detail, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postCols+`, `+authorCols+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id)

	var d posts.Detail
	var authorID string
	err := row.Scan(
		&d.ID,
		&d.AuthorID,
		&d.Title,
		&d.Body,
		&d.Location,
		&d.Lat,
		&d.Lng,
		&d.MeetupAt,
		&d.PreferredSize,
		&d.CreatedAt,
		&d.UpdatedAt,
		&authorID,
		&d.Author.Name,
		&d.Author.City,
		&d.Author.SafetyPledgedAt,
	)
	if err == sql.ErrNoRows {
		return posts.Detail{}, posts.ErrNotFound
	}
	if err != nil {
		return posts.Detail{}, err
	}
	d.Author.ID = authorID

	rows, err := r.db.QueryContext(ctx, `
		SELECT r.post_id, r.user_id, r.created_at, u.id, u.name, u.city
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.post_id = $1
		ORDER BY r.created_at ASC
	`, id)
	if err != nil {
		return posts.Detail{}, err
	}
	defer rows.Close()

	d.RSVPs = make([]posts.AttendeeRSVP, 0)
	for rows.Next() {
		var a posts.AttendeeRSVP
		if err := rows.Scan(
			&a.PostID,
			&a.UserID,
			&a.CreatedAt,
			&a.User.ID,
			&a.User.Name,
			&a.User.City,
		); err != nil {
			return posts.Detail{}, err
		}
		d.RSVPs = append(d.RSVPs, a)
	}
	return d, rows.Err()
}

func (r *PostsRepo) UpsertRSVP(ctx context.Context, postID, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rsvps (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, postID, userID, at)
	return err
}

func (r *PostsRepo) DeleteRSVP(ctx context.Context, postID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM rsvps WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return posts.ErrRSVPNotFound
	}
	return nil
}

func (r *PostsRepo) HaveSharedRSVP(ctx context.Context, userID, otherID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM rsvps a
		JOIN rsvps b ON b.post_id = a.post_id
		WHERE a.user_id = $1 AND b.user_id = $2
		LIMIT 1
	`, userID, otherID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostsRepo) listItems(ctx context.Context, query string, arg any) ([]posts.ListItem, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]posts.ListItem, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var it posts.ListItem
		if err := rows.Scan(
			&it.ID,
			&it.AuthorID,
			&it.Title,
			&it.Body,
			&it.Location,
			&it.Lat,
			&it.Lng,
			&it.MeetupAt,
			&it.PreferredSize,
			&it.CreatedAt,
			&it.UpdatedAt,
			&it.Author.ID,
			&it.Author.Name,
			&it.Author.City,
			&it.Author.SafetyPledgedAt,
		); err != nil {
			return nil, err
		}
		it.RSVPUserIDs = make([]string, 0)
		out = append(out, it)
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// RSVPs de todo el listado en una sola pasada.
	rvRows, err := r.db.QueryContext(ctx, `
		SELECT post_id, user_id
		FROM rsvps
		WHERE post_id = ANY($1)
		ORDER BY created_at ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rvRows.Close()

	byPost := make(map[string][]string, len(out))
	for rvRows.Next() {
		var postID, userID string
		if err := rvRows.Scan(&postID, &userID); err != nil {
			return nil, err
		}
		byPost[postID] = append(byPost[postID], userID)
	}
	if err := rvRows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if ids := byPost[out[i].ID]; ids != nil {
			out[i].RSVPUserIDs = ids
		}
	}
	return out, nil
}
