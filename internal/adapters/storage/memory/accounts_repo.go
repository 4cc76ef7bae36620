// Package memory implementa los repositorios sobre maps en memoria.
// Respaldan el modo dev (sin DATABASE_URL) y los tests e2e.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"buddymatch/internal/domain/accounts"
)

type accountRepo struct {
	mu      sync.RWMutex
	byID    map[string]accounts.Account
	byEmail map[string]string // email normalizado -> id

	// Par no ordenado canónico "menor|mayor" -> presente.
	friends map[string]struct{}
}

func NewAccountRepo() accounts.Repository {
	return &accountRepo{
		byID:    make(map[string]accounts.Account),
		byEmail: make(map[string]string),
		friends: make(map[string]struct{}),
	}
}

func (r *accountRepo) Create(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	if _, exists := r.byEmail[a.Email]; exists {
		return accounts.ErrEmailTaken
	}
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return accounts.Account{}, accounts.ErrNotFound
	}
	return a, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return accounts.Account{}, accounts.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *accountRepo) Update(ctx context.Context, a accounts.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[a.ID]
	if !ok {
		return accounts.ErrNotFound
	}
	if prev.Email != a.Email {
		delete(r.byEmail, prev.Email)
		r.byEmail[a.Email] = a.ID
	}
	r.byID[a.ID] = a
	return nil
}

func (r *accountRepo) ListWithCoords(ctx context.Context, excludeID string) ([]accounts.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accounts.Account, 0)
	for _, a := range r.byID {
		if a.ID == excludeID || a.Lat == nil || a.Lng == nil {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *accountRepo) AddFriend(ctx context.Context, userID, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.friends[pairKey(userID, otherID)] = struct{}{}
	return nil
}

func (r *accountRepo) RemoveFriend(ctx context.Context, userID, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.friends, pairKey(userID, otherID))
	return nil
}

func (r *accountRepo) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.friends[pairKey(userID, otherID)]
	return ok, nil
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
