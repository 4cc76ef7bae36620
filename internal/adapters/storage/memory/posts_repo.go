package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"buddymatch/internal/domain/accounts"
	"buddymatch/internal/domain/posts"
)

type postRepo struct {
	mu    sync.RWMutex
	byID  map[string]posts.Post
	rsvps map[string]map[string]time.Time // postID -> userID -> createdAt

	accounts accounts.Repository
}

// NewPostRepo recibe el repo de cuentas para expandir autor y asistentes,
// igual que los JOINs de la variante postgres.
func NewPostRepo(accountRepo accounts.Repository) posts.Repository {
	return &postRepo{
		byID:     make(map[string]posts.Post),
		rsvps:    make(map[string]map[string]time.Time),
		accounts: accountRepo,
	}
}

func (r *postRepo) Create(ctx context.Context, p posts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("post id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return posts.Post{}, posts.ErrNotFound
	}
	return p, nil
}

func (r *postRepo) Update(ctx context.Context, p posts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return posts.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return posts.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.rsvps, id)
	return nil
}

func (r *postRepo) List(ctx context.Context, search string) ([]posts.ListItem, error) {
	r.mu.RLock()
	matched := make([]posts.Post, 0)
	for _, p := range r.byID {
		if matchesSearch(p, search) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sortFeed(matched)
	return r.expandItems(ctx, matched)
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID string) ([]posts.ListItem, error) {
	r.mu.RLock()
	matched := make([]posts.Post, 0)
	for _, p := range r.byID {
		if p.AuthorID == authorID {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return r.expandItems(ctx, matched)
}

func (r *postRepo) GetDetail(ctx context.Context, id string) (posts.Detail, error) {
	r.mu.RLock()
	p, ok := r.byID[id]
	if !ok {
		r.mu.RUnlock()
		return posts.Detail{}, posts.ErrNotFound
	}
	attending := make([]posts.RSVP, 0, len(r.rsvps[id]))
	for userID, at := range r.rsvps[id] {
		attending = append(attending, posts.RSVP{PostID: id, UserID: userID, CreatedAt: at})
	}
	r.mu.RUnlock()

	sort.Slice(attending, func(i, j int) bool {
		return attending[i].CreatedAt.Before(attending[j].CreatedAt)
	})

	d := posts.Detail{Post: p, RSVPs: make([]posts.AttendeeRSVP, 0, len(attending))}
	author, err := r.accounts.GetByID(ctx, p.AuthorID)
	if err != nil {
		return posts.Detail{}, err
	}
	d.Author = posts.AuthorSummary{
		ID:              author.ID,
		Name:            author.Name,
		City:            author.City,
		SafetyPledgedAt: author.SafetyPledgedAt,
	}
	for _, rs := range attending {
		u, err := r.accounts.GetByID(ctx, rs.UserID)
		if err != nil {
			continue // cuenta borrada, el RSVP ya no se muestra
		}
		d.RSVPs = append(d.RSVPs, posts.AttendeeRSVP{
			RSVP: rs,
			User: posts.UserSummary{ID: u.ID, Name: u.Name, City: u.City},
		})
	}
	return d, nil
}

func (r *postRepo) UpsertRSVP(ctx context.Context, postID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[postID]; !ok {
		return posts.ErrNotFound
	}
	if r.rsvps[postID] == nil {
		r.rsvps[postID] = make(map[string]time.Time)
	}
	if _, exists := r.rsvps[postID][userID]; !exists {
		r.rsvps[postID][userID] = at
	}
	return nil
}

func (r *postRepo) DeleteRSVP(ctx context.Context, postID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rsvps[postID][userID]; !exists {
		return posts.ErrRSVPNotFound
	}
	delete(r.rsvps[postID], userID)
	return nil
}

func (r *postRepo) HaveSharedRSVP(ctx context.Context, userID, otherID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, users := range r.rsvps {
		if _, a := users[userID]; !a {
			continue
		}
		if _, b := users[otherID]; b {
			return true, nil
		}
	}
	return false, nil
}

func (r *postRepo) expandItems(ctx context.Context, list []posts.Post) ([]posts.ListItem, error) {
	out := make([]posts.ListItem, 0, len(list))
	for _, p := range list {
		author, err := r.accounts.GetByID(ctx, p.AuthorID)
		if err != nil {
			return nil, err
		}

		r.mu.RLock()
		pairs := make([]posts.RSVP, 0, len(r.rsvps[p.ID]))
		for userID, at := range r.rsvps[p.ID] {
			pairs = append(pairs, posts.RSVP{UserID: userID, CreatedAt: at})
		}
		r.mu.RUnlock()

		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].CreatedAt.Before(pairs[j].CreatedAt)
		})
		ids := make([]string, 0, len(pairs))
		for _, rs := range pairs {
			ids = append(ids, rs.UserID)
		}

		out = append(out, posts.ListItem{
			Post: p,
			Author: posts.AuthorSummary{
				ID:              author.ID,
				Name:            author.Name,
				City:            author.City,
				SafetyPledgedAt: author.SafetyPledgedAt,
			},
			RSVPUserIDs: ids,
		})
	}
	return out, nil
}

func matchesSearch(p posts.Post, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Body), q) {
		return true
	}
	if p.Location != nil && strings.Contains(strings.ToLower(*p.Location), q) {
		return true
	}
	return false
}

// sortFeed: meetup_at asc con nulls al final; los sin fecha, más nuevos primero.
func sortFeed(list []posts.Post) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.MeetupAt != nil && b.MeetupAt != nil:
			return a.MeetupAt.Before(*b.MeetupAt)
		case a.MeetupAt != nil:
			return true
		case b.MeetupAt != nil:
			return false
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}
