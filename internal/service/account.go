package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/techstore/internal/auth"
	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/notify"
	"github.com/dukerupert/techstore/internal/storage"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// AccountDeps are the collaborators of a session's account service.
type AccountDeps struct {
	Users    domain.UserRepository
	Session  storage.Store // session-scoped; holds storage.KeyCurrentUser
	Hasher   *auth.Hasher
	Notifier domain.Notifier
	Clock    domain.Clock
	Logger   *slog.Logger
	Metrics  *telemetry.BusinessMetrics
}

type accountService struct {
	users    domain.UserRepository
	hasher   *auth.Hasher
	notifier domain.Notifier
	clock    domain.Clock
	persist  persister
	logger   *slog.Logger
	metrics  *telemetry.BusinessMetrics

	current *domain.User
}

// NewAccountService restores the signed-in user of the session.
func NewAccountService(ctx context.Context, deps AccountDeps) domain.AccountService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard{}
	}
	if deps.Clock == nil {
		deps.Clock = domain.SystemClock{}
	}
	if deps.Hasher == nil {
		deps.Hasher = auth.NewHasher(auth.DefaultCost)
	}
	s := &accountService{
		users:    deps.Users,
		hasher:   deps.Hasher,
		notifier: deps.Notifier,
		clock:    deps.Clock,
		persist:  newPersister(deps.Session, deps.Logger, deps.Metrics),
		logger:   deps.Logger.With("service", "account"),
		metrics:  deps.Metrics,
	}

	var u domain.User
	if s.persist.load(ctx, storage.KeyCurrentUser, &u) && u.ID != "" {
		s.current = &u
	}
	return s
}

func (s *accountService) Register(ctx context.Context, params domain.RegisterParams) (domain.User, error) {
	const op = "account.register"

	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	if name == "" {
		return domain.User{}, s.reject(ctx, domain.NewValidationError(op, "name", "Name is required"))
	}
	if email == "" {
		return domain.User{}, s.reject(ctx, domain.NewValidationError(op, "email", "Email is required"))
	}
	if params.Password != params.ConfirmPassword {
		return domain.User{}, s.reject(ctx, domain.ErrPasswordMismatch.WithOp(op))
	}
	if _, taken := s.users.FindByEmail(ctx, email); taken {
		return domain.User{}, s.reject(ctx, domain.ErrEmailTaken.WithOp(op))
	}

	hash, err := s.hasher.Hash(params.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return domain.User{}, s.reject(ctx, domain.NewValidationError(op, "password",
			fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength)))
	}
	if err != nil {
		return domain.User{}, domain.Internal(err, op, "Could not create account")
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(params.Phone),
		PasswordHash: hash,
		Points:       domain.SignupBonusPoints,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.User{}, s.reject(ctx, domain.ErrEmailTaken.WithOp(op))
		}
		return domain.User{}, domain.Internal(err, op, "Could not create account")
	}

	s.setCurrent(ctx, user)
	s.metrics.RecordSignup()
	s.logger.InfoContext(ctx, "account registered", "user_id", user.ID)
	s.notifier.Notify(ctx, fmt.Sprintf("Welcome, %s! You received %d bonus points.", user.Name, domain.SignupBonusPoints), domain.NotifySuccess)
	return user.Public(), nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (domain.User, error) {
	const op = "account.login"

	user, ok := s.users.FindByEmail(ctx, email)
	if !ok || s.hasher.Verify(password, user.PasswordHash) != nil {
		s.metrics.RecordLogin(false)
		return domain.User{}, s.reject(ctx, domain.ErrBadCredentials.WithOp(op))
	}

	s.setCurrent(ctx, user)
	s.metrics.RecordLogin(true)
	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID)
	s.notifier.Notify(ctx, fmt.Sprintf("Welcome back, %s!", user.Name), domain.NotifySuccess)
	return user.Public(), nil
}

func (s *accountService) Logout(ctx context.Context) {
	if s.current == nil {
		return
	}
	s.logger.InfoContext(ctx, "user signed out", "user_id", s.current.ID)
	s.current = nil
	s.persist.remove(ctx, storage.KeyCurrentUser)
	s.notifier.Notify(ctx, "You have been signed out", domain.NotifyInfo)
}

// Current returns the signed-in user with the latest points balance.
func (s *accountService) Current(ctx context.Context) (domain.User, bool) {
	if s.current == nil {
		return domain.User{}, false
	}
	if fresh, ok := s.users.FindByID(ctx, s.current.ID); ok {
		return fresh.Public(), true
	}
	return s.current.Public(), true
}

// AwardPoints credits points to any account, not only the signed-in one.
func (s *accountService) AwardPoints(ctx context.Context, userID string, points int64) error {
	if points <= 0 {
		return nil
	}
	user, err := s.users.Update(ctx, userID, func(u *domain.User) error {
		u.Points += points
		return nil
	})
	if err != nil {
		return err
	}
	if s.current != nil && s.current.ID == userID {
		s.setCurrent(ctx, user)
	}
	s.metrics.RecordPointsAwarded(points)
	return nil
}

func (s *accountService) setCurrent(ctx context.Context, u domain.User) {
	pub := u.Public()
	s.current = &pub
	s.persist.save(ctx, storage.KeyCurrentUser, pub)
}

func (s *accountService) reject(ctx context.Context, err error) error {
	s.notifier.Notify(ctx, notificationText(err), domain.NotifyError)
	return err
}
