package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/mateusmacedo/go-pathshare/internal/account/domain"
	"github.com/mateusmacedo/go-pathshare/internal/identity"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-pathshare/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

type bcryptHasher struct{}

func (bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}

func (bcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

type userStore struct {
	users map[string]domain.User
}

func (s *userStore) Save(_ context.Context, user domain.User) error {
	for _, u := range s.users {
		if u.Username == user.Username {
			return domain.ErrUserExists
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *userStore) FindByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *userStore) FindByID(_ context.Context, id string) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func register(t *testing.T, store *userStore) (func(RegisterUserData) error, *[]UserRegisteredData) {
	logger := zapAdapter.NewFromZap(zaptest.NewLogger(t))
	bus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[UserRegisteredData], UserRegisteredData](logger)
	var published []UserRegisteredData
	bus.RegisterHandler(UserRegisteredEventName, pkgApp.EventHandlerFunc[pkgDomain.Event[UserRegisteredData], UserRegisteredData](
		func(_ context.Context, event pkgDomain.Event[UserRegisteredData]) error {
			published = append(published, event.Payload())
			return nil
		}))

	handler := NewRegisterUserHandler(bus, store, bcryptHasher{}, logger)
	return func(data RegisterUserData) error {
		return handler.Handle(context.Background(), NewRegisterUserCommand(data))
	}, &published
}

func TestRegisterUser(t *testing.T) {
	store := &userStore{users: map[string]domain.User{}}
	run, published := register(t, store)

	err := run(RegisterUserData{ID: "u1", Username: "alice", Email: "a@example.com", Password1: "s3cret", Password2: "s3cret"})
	require.NoError(t, err)

	user := store.users["u1"]
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
	require.Len(t, *published, 1)
	assert.Equal(t, "u1", (*published)[0].UserID)
}

func TestRegisterUserRejections(t *testing.T) {
	store := &userStore{users: map[string]domain.User{}}
	run, published := register(t, store)
	require.NoError(t, run(RegisterUserData{ID: "u1", Username: "alice", Password1: "s3cret", Password2: "s3cret"}))

	assert.ErrorIs(t, run(RegisterUserData{ID: "u2", Username: "alice", Password1: "other1", Password2: "other1"}), domain.ErrUserExists)
	assert.ErrorIs(t, run(RegisterUserData{ID: "u3", Username: "bobby", Password1: "abcd", Password2: "abce"}), domain.ErrPasswordMismatch)
	assert.ErrorIs(t, run(RegisterUserData{ID: "u4", Username: "bo", Password1: "abcd", Password2: "abcd"}), domain.ErrNameTooShort)
	assert.ErrorIs(t, run(RegisterUserData{ID: "u5", Username: "bobby", Password1: "abc", Password2: "abc"}), domain.ErrPasswordTooShort)

	assert.Len(t, store.users, 1)
	assert.Len(t, *published, 1)
}

func TestCredentialChecker(t *testing.T) {
	store := &userStore{users: map[string]domain.User{}}
	run, _ := register(t, store)
	require.NoError(t, run(RegisterUserData{ID: "u1", Username: "alice", Password1: "s3cret", Password2: "s3cret"}))

	checker := NewCredentialChecker(store, bcryptHasher{})

	p, err := checker.VerifyPassword(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, identity.Principal{UserID: "u1", Username: "alice"}, p)

	_, err = checker.VerifyPassword(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = checker.VerifyPassword(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}
