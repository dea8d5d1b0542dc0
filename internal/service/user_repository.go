package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// userRepository keeps the shared account list under storage.KeyUsers.
type userRepository struct {
	mu      sync.Mutex
	users   []domain.User
	persist persister
}

// NewUserRepository loads the persisted accounts from store.
func NewUserRepository(ctx context.Context, store storage.Store, logger *slog.Logger, metrics *telemetry.BusinessMetrics) domain.UserRepository {
	r := &userRepository{persist: newPersister(store, logger, metrics)}

	var users []domain.User
	if r.persist.load(ctx, storage.KeyUsers, &users) {
		r.users = users
	}
	return r
}

func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findByEmailLocked(user.Email); ok {
		return domain.ErrEmailTaken
	}
	r.users = append(r.users, user)
	r.persist.save(ctx, storage.KeyUsers, r.users)
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.findByEmailLocked(email)
	if !ok {
		return domain.User{}, false
	}
	return r.users[i], true
}

func (r *userRepository) findByEmailLocked(email string) (int, bool) {
	email = strings.TrimSpace(email)
	for i, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return i, true
		}
	}
	return 0, false
}

func (r *userRepository) FindByID(ctx context.Context, id string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

func (r *userRepository) Update(ctx context.Context, id string, fn func(*domain.User) error) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID != id {
			continue
		}
		updated := r.users[i]
		if err := fn(&updated); err != nil {
			return domain.User{}, err
		}
		r.users[i] = updated
		r.persist.save(ctx, storage.KeyUsers, r.users)
		return updated, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}
