package application

import (
	"context"
	"errors"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/account/domain"
	"github.com/mateusmacedo/go-pathshare/internal/identity"
	"github.com/mateusmacedo/go-pathshare/internal/observability"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type registerUserHandler struct {
	eventBus   pkgApp.EventBus[pkgDomain.Event[UserRegisteredData], UserRegisteredData]
	repository domain.UserRepository
	hasher     PasswordHasher
	logger     pkgApp.AppLogger
	now        func() time.Time
}

func NewRegisterUserHandler(
	eventBus pkgApp.EventBus[pkgDomain.Event[UserRegisteredData], UserRegisteredData],
	repo domain.UserRepository,
	hasher PasswordHasher,
	logger pkgApp.AppLogger,
) pkgApp.CommandHandler[pkgDomain.Command[RegisterUserData], RegisterUserData] {
	return &registerUserHandler{
		eventBus:   eventBus,
		repository: repo,
		hasher:     hasher,
		logger:     logger,
		now:        time.Now,
	}
}

func (h *registerUserHandler) Handle(ctx context.Context, command pkgDomain.Command[RegisterUserData]) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data := command.Payload()
	if err := domain.ValidateRegistration(data.Username, data.Password1, data.Password2); err != nil {
		pkgApp.LogInfo(ctx, h.logger, "registration rejected", map[string]interface{}{
			"username": data.Username,
			"reason":   err.Error(),
		})
		return err
	}

	hash, err := h.hasher.Hash(data.Password1)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "error hashing password", err, nil)
		return err
	}

	user := domain.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: hash,
		CreatedAt:    h.now().UTC(),
	}
	if err := h.repository.Save(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			pkgApp.LogError(ctx, h.logger, "error saving user", err, map[string]interface{}{"username": user.Username})
		}
		return err
	}

	event := NewUserRegisteredEvent(UserRegisteredData{
		UserID:       user.ID,
		Username:     user.Username,
		RegisteredAt: user.CreatedAt,
	})
	if err := h.eventBus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, h.logger, "error publishing event", err, map[string]interface{}{"event_name": event.EventName()})
	}

	pkgApp.LogInfo(ctx, h.logger, "user registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

type userRegisteredEventHandler struct {
	logger pkgApp.AppLogger
}

func NewUserRegisteredEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[UserRegisteredData], UserRegisteredData] {
	return &userRegisteredEventHandler{logger: logger}
}

func (h *userRegisteredEventHandler) Handle(ctx context.Context, event pkgDomain.Event[UserRegisteredData]) error {
	observability.RecordUserRegistered()
	pkgApp.LogDebug(ctx, h.logger, "event received", map[string]interface{}{
		"event_name": event.EventName(),
		"user_id":    event.Payload().UserID,
	})
	return nil
}

// CredentialChecker verifies Basic credentials against the account store.
type CredentialChecker struct {
	repository domain.UserRepository
	hasher     PasswordHasher
}

func NewCredentialChecker(repo domain.UserRepository, hasher PasswordHasher) *CredentialChecker {
	return &CredentialChecker{repository: repo, hasher: hasher}
}

func (c *CredentialChecker) VerifyPassword(ctx context.Context, username, password string) (identity.Principal, error) {
	user, err := c.repository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return identity.Principal{}, identity.ErrInvalidCredentials
		}
		return identity.Principal{}, err
	}
	if err := c.hasher.Compare(user.PasswordHash, password); err != nil {
		return identity.Principal{}, identity.ErrInvalidCredentials
	}
	return identity.Principal{UserID: user.ID, Username: user.Username}, nil
}
