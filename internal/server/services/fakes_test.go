package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/cryptox"
	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/auth"
	"github.com/dmitrijs2005/gophaccounts/internal/server/config"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophaccounts/internal/server/repositories/users"
)

// failingUoW fails every unit of work with a storage fault before fn runs.
type failingUoW struct{ cause error }

func (u failingUoW) Do(context.Context, func(context.Context, repomanager.Repositories) error) error {
	return common.NewStorageError("uow", u.cause)
}

// countingUoW counts Do calls and fails the first failFirst of them.
type countingUoW struct {
	next      repomanager.UnitOfWork
	mu        sync.Mutex
	calls     int
	failFirst int
}

func (u *countingUoW) Do(ctx context.Context, fn func(context.Context, repomanager.Repositories) error) error {
	u.mu.Lock()
	u.calls++
	fail := u.calls <= u.failFirst
	u.mu.Unlock()

	if fail {
		return common.NewStorageError("uow", context.DeadlineExceeded)
	}
	return u.next.Do(ctx, fn)
}

func (u *countingUoW) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type sentLink struct {
	email string
	link  string
}

type recordingNotifier struct {
	mu    sync.Mutex
	links []sentLink
}

func (n *recordingNotifier) NotifyVerification(_ context.Context, email, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.links = append(n.links, sentLink{email: email, link: link})
}

func (n *recordingNotifier) sent() []sentLink {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentLink(nil), n.links...)
}

var testHashParams = cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PublicURL = "https://accounts.example/"
	return cfg
}

type authFixture struct {
	table    *users.MemoryTable
	uow      repomanager.UnitOfWork
	tokens   *auth.TokenCodec
	notifier *recordingNotifier
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	table := users.NewMemoryTable()
	uow := repomanager.NewMemoryUnitOfWork(table)
	tokens := auth.NewTokenCodec([]byte("test-secret"))
	notifier := &recordingNotifier{}
	svc := NewAuthService(uow, cryptox.NewHasher(testHashParams, 4), tokens, notifier, testConfig(), logging.Nop())
	return &authFixture{table: table, uow: uow, tokens: tokens, notifier: notifier, svc: svc}
}

func (f *authFixture) size() int { return f.table.Len() }

func (f *authFixture) byEmail(t *testing.T, email string) (*models.User, bool) {
	t.Helper()
	var user *models.User
	err := f.table.Tx(func(repo *users.MemoryRepository) error {
		var err error
		user, err = repo.GetByEmail(context.Background(), email)
		return err
	})
	if err != nil {
		t.Fatalf("lookup %s: %v", email, err)
	}
	return user, user != nil
}

// seedUser stores an account with a real password hash.
func (f *authFixture) seedUser(t *testing.T, email, password string, verified bool, role models.Role) models.User {
	t.Helper()
	hash, err := cryptox.NewHasher(testHashParams, 1).Hash(context.Background(), password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	var user *models.User
	err = f.table.Tx(func(repo *users.MemoryRepository) error {
		var err error
		user, err = repo.Add(context.Background(), &models.User{
			Email: email, PasswordHash: hash, Verified: verified, Role: role,
		})
		return err
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return *user
}

// lostRaceUoW hands fn repositories whose MarkVerified changes nothing, as
// when a concurrent transaction verified the row after this one read it.
type lostRaceUoW struct{ next repomanager.UnitOfWork }

type lostRaceRepositories struct{ repomanager.Repositories }

type lostRaceUsers struct{ users.Repository }

func (u lostRaceUoW) Do(ctx context.Context, fn func(context.Context, repomanager.Repositories) error) error {
	return u.next.Do(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		return fn(ctx, lostRaceRepositories{repos})
	})
}

func (r lostRaceRepositories) Users() users.Repository { return lostRaceUsers{r.Repositories.Users()} }

func (lostRaceUsers) MarkVerified(context.Context, string) (bool, error) { return false, nil }
