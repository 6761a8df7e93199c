package users

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/google/uuid"
)

// MemoryTable is an in-process user table for local runs and tests.
// Transactions over it are serialized.
type MemoryTable struct {
	mu   sync.Mutex
	rows map[string]models.User
	now  func() time.Time
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{rows: map[string]models.User{}, now: time.Now}
}

// SetClock replaces the clock used for timestamps and retention cutoffs.
func (t *MemoryTable) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Len returns the number of stored users. It must not be called from inside Tx.
func (t *MemoryTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Tx runs fn against a private copy of the table and publishes the copy only
// when fn returns nil.
func (t *MemoryTable) Tx(fn func(repo *MemoryRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	work := make(map[string]models.User, len(t.rows))
	for k, v := range t.rows {
		work[k] = v
	}

	if err := fn(&MemoryRepository{rows: work, now: t.now}); err != nil {
		return err
	}
	t.rows = work
	return nil
}

// MemoryRepository is the Repository view of a MemoryTable inside one Tx.
type MemoryRepository struct {
	rows map[string]models.User
	now  func() time.Time
}

func (r *MemoryRepository) emailTaken(email, exceptID string) bool {
	for _, u := range r.rows {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Add(_ context.Context, user *models.User) (*models.User, error) {
	if r.emailTaken(user.Email, "") {
		return nil, fmt.Errorf("email %q: %w", user.Email, common.ErrAlreadyExists)
	}

	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := r.now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.rows[u.ID] = u
	return &u, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.User, error) {
	result := make([]*models.User, 0, len(r.rows))
	for _, u := range r.rows {
		u := u
		result = append(result, &u)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, nil
	}

	if upd.Email != nil {
		if r.emailTaken(*upd.Email, id) {
			return nil, fmt.Errorf("email: %w", common.ErrAlreadyExists)
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Surname != nil {
		u.Surname = *upd.Surname
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	u.UpdatedAt = r.now().UTC()

	r.rows[id] = u
	return &u, nil
}

func (r *MemoryRepository) MarkVerified(_ context.Context, id string) (bool, error) {
	u, ok := r.rows[id]
	if !ok || u.Verified {
		return false, nil
	}
	u.Verified = true
	u.UpdatedAt = r.now().UTC()
	r.rows[id] = u
	return true, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository) DeleteStaleUnverified(_ context.Context, retention time.Duration) (int64, error) {
	cutoff := r.now().UTC().Add(-retention)

	var n int64
	for id, u := range r.rows {
		if !u.Verified && u.CreatedAt.Before(cutoff) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}
