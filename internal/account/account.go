package account

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-pathshare/internal/account/application"
	"github.com/mateusmacedo/go-pathshare/internal/account/domain"
	"github.com/mateusmacedo/go-pathshare/internal/account/infrastructure"
	"github.com/mateusmacedo/go-pathshare/internal/identity"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
)

type AccountSlice struct {
	httpHandler *infrastructure.AccountHTTPHandler
	credentials *application.CredentialChecker
}

func NewAccountSlice(
	commandBus pkgApp.CommandBus[pkgDomain.Command[application.RegisterUserData], application.RegisterUserData],
	eventBus pkgApp.EventBus[pkgDomain.Event[application.UserRegisteredData], application.UserRegisteredData],
	repository domain.UserRepository,
	hasher application.PasswordHasher,
	idGenerator pkgDomain.IDGenerator[string],
	tokens *identity.Tokens,
	requestTimeout time.Duration,
	logger pkgApp.AppLogger,
) *AccountSlice {
	commandBus.RegisterHandler(application.RegisterUserCommandName, application.NewRegisterUserHandler(eventBus, repository, hasher, logger))
	eventBus.RegisterHandler(application.UserRegisteredEventName, application.NewUserRegisteredEventHandler(logger))

	return &AccountSlice{
		httpHandler: infrastructure.NewAccountHTTPHandler(commandBus, idGenerator, tokens, requestTimeout),
		credentials: application.NewCredentialChecker(repository, hasher),
	}
}

// Credentials verifies HTTP Basic logins for the identity middleware.
func (s *AccountSlice) Credentials() identity.PasswordVerifier {
	return s.credentials
}

func (s *AccountSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
