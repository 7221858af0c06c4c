package user

import (
	"context"
	"strings"
	"sync"

	"github.com/wichananm65/eco-shop-backend/internal/apperror"
)

var (
	ErrNotFound             = apperror.NotFound("user not found")
	ErrInvalidCredentials   = apperror.Unauthorized("invalid email or password")
	ErrEmailExists          = apperror.Conflict("email already exists")
	ErrTwoFactorRequired    = apperror.Unauthorized("two-factor code required")
	ErrInvalidTwoFactorCode = apperror.Unauthorized("invalid two-factor code")
	ErrInvalidOTP           = apperror.Unauthorized("invalid or expired code")
)

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	// Update overwrites every mutable column of the user with id.
	Update(ctx context.Context, id int, user User) (User, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	users  []User
	nextID int
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:  make([]User, 0, len(seed)),
		nextID: 1,
	}

	maxID := 0
	for _, user := range seed {
		repo.users = append(repo.users, user)
		if user.ID > maxID {
			maxID = user.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) List(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrEmailExists
		}
	}
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users = append(r.users, user)
	return user, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int, userUpdate User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID == id {
			userUpdate.ID = id
			userUpdate.Email = user.Email
			userUpdate.CreatedAt = user.CreatedAt
			if userUpdate.Password == "" {
				userUpdate.Password = user.Password
			}
			r.users[i] = userUpdate
			return userUpdate, nil
		}
	}
	return User{}, ErrNotFound
}
