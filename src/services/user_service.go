package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sccbd/catalog-api/src/logging"
	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
)

// dummyHash keeps login timing uniform for unknown emails
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)

// StaffInput is the payload for creating a staff account
type StaffInput struct {
	Username string      `json:"username" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,password"`
	Role     models.Role `json:"role" validate:"required,oneof=admin maintainer viewer student"`
}

// StudentInput is the payload for student self-signup
type StudentInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Phone    string `json:"phone" validate:"required"`
}

type resetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,password"`
}

// UserServiceConfig holds the settings UserService needs besides its collaborators
type UserServiceConfig struct {
	ClientServer  string
	ResetTokenTTL time.Duration
}

// UserService handles account creation, login, activation and password reset
type UserService struct {
	users   repositories.UserRepository
	keys    *KeyService
	images  *ImageStore
	mailer  Mailer
	tracker Tracker
	cfg     UserServiceConfig
	now     func() time.Time
	logger  zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, keys *KeyService, images *ImageStore, mailer Mailer, tracker Tracker, cfg UserServiceConfig) *UserService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &UserService{
		users:   users,
		keys:    keys,
		images:  images,
		mailer:  mailer,
		tracker: tracker,
		cfg:     cfg,
		now:     time.Now,
		logger:  logging.NewLogger("user_service"),
	}
}

func (s *UserService) track(ctx context.Context, email, event string, props map[string]interface{}) {
	if s.tracker != nil {
		s.tracker.Track(ctx, email, event, props)
	}
}

// link builds CLIENT_SERVER/<path>?token=<token>
func (s *UserService) link(path, token string) string {
	return fmt.Sprintf("%s/%s?token=%s", strings.TrimRight(s.cfg.ClientServer, "/"), path, url.QueryEscape(token))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// HasUsers reports whether any account exists yet
func (s *UserService) HasUsers(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateUser creates an activated staff account without a profile image and returns its API key
func (s *UserService) CreateUser(ctx context.Context, in StaffInput) (*models.User, string, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, "", err
	}
	return s.insert(ctx, in, "")
}

// CreateStaff creates an activated staff account with a profile image and returns its API key
func (s *UserService) CreateStaff(ctx context.Context, in StaffInput, image *multipart.FileHeader) (*models.User, string, error) {
	verr := &ValidationError{}
	if err := ValidateStruct(in); err != nil {
		if !errors.As(err, &verr) {
			return nil, "", err
		}
	}
	if image == nil {
		verr.Add("profile_image", "profile_image is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, "", err
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	name, err := s.images.Save(image)
	if err != nil {
		return nil, "", err
	}

	user, key, err := s.insert(ctx, in, name)
	if err != nil {
		s.images.discard(name)
		return nil, "", err
	}
	return user, key, nil
}

func (s *UserService) insert(ctx context.Context, in StaffInput, profileImage string) (*models.User, string, error) {
	passwordHash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	key, err := s.keys.Issue()
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:        strings.TrimSpace(in.Username),
		Email:           strings.TrimSpace(in.Email),
		PasswordHash:    passwordHash,
		Role:            in.Role,
		ProfileImage:    profileImage,
		APIKeyEncrypted: key.Encrypted,
		APIKeyHash:      key.Hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	s.track(ctx, user.Email, EventUserCreated, map[string]interface{}{"role": string(user.Role)})
	return user, key.Plain, nil
}

// RegisterStudent creates a pending student account and emails its activation link.
// When the email cannot be sent the account is kept and the error is returned with it.
func (s *UserService) RegisterStudent(ctx context.Context, in StudentInput) (*models.User, string, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, "", err
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	key, err := s.keys.Issue()
	if err != nil {
		return nil, "", err
	}
	token, err := GenerateToken()
	if err != nil {
		return nil, "", err
	}
	tokenHash := s.keys.HashToken(token)

	user := &models.User{
		Username:            strings.TrimSpace(in.Username),
		Email:               strings.TrimSpace(in.Email),
		PasswordHash:        passwordHash,
		Role:                models.RoleStudent,
		Phone:               strings.TrimSpace(in.Phone),
		APIKeyEncrypted:     key.Encrypted,
		APIKeyHash:          key.Hash,
		ActivationTokenHash: &tokenHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	s.track(ctx, user.Email, EventStudentRegistered, nil)

	if err := s.mailer.SendActivation(ctx, user.Email, user.Username, s.link("account-activation", token)); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("activation email failed")
		return user, key.Plain, fmt.Errorf("failed to send activation email: %w", err)
	}
	return user, key.Plain, nil
}

// Login checks credentials and returns the user with its API key
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActivated() {
		return nil, "", ErrAccountNotActivated
	}

	key, err := s.keys.Reveal(user.APIKeyEncrypted)
	if err != nil {
		return nil, "", err
	}
	return user, key, nil
}

// Activate redeems an email activation token. Tokens are single use.
func (s *UserService) Activate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	hash := s.keys.HashToken(token)
	user, err := s.users.GetByActivationTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	// a concurrent redemption of the same token loses here
	if err := s.users.RedeemActivationToken(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	user.ActivationTokenHash = nil

	s.track(ctx, user.Email, EventAccountActivated, nil)
	return user, nil
}

// RequestPasswordReset emails a reset link. Unknown emails succeed silently.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Info().Str("email", logging.MaskEmail(email)).Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := GenerateToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, s.keys.HashToken(token), s.now().Add(s.cfg.ResetTokenTTL)); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, s.link("reset-password", token)); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token and sets a new password. Tokens are single use.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if err := ValidateStruct(resetPasswordInput{Token: token, Password: password}); err != nil {
		return err
	}

	hash := s.keys.HashToken(token)
	user, err := s.users.GetByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	now := s.now()
	if user.ResetExpired(now) {
		return ErrTokenExpired
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.users.RedeemResetToken(ctx, hash, passwordHash, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}

	s.track(ctx, user.Email, EventPasswordReset, nil)
	return nil
}

// Authenticate resolves an API key to its activated owner
func (s *UserService) Authenticate(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	user, err := s.users.GetByAPIKeyHash(ctx, s.keys.Hash(apiKey))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	if !user.IsActivated() {
		return nil, ErrAccountNotActivated
	}
	return user, nil
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Get returns one user by ID
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the user row and its profile image
func (s *UserService) Delete(ctx context.Context, user *models.User) (int64, error) {
	rows, err := s.users.Delete(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrUserNotFound
	}
	if user.ProfileImage != "" {
		s.images.discard(user.ProfileImage)
	}
	return rows, nil
}

// EnsureAdmin creates the first admin when no users exist. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	has, err := s.HasUsers(ctx)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	user, _, err := s.CreateUser(ctx, StaffInput{Username: username, Email: email, Password: password, Role: models.RoleAdmin})
	if err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	s.logger.Info().Int64("user_id", user.ID).Str("email", logging.MaskEmail(user.Email)).Msg("initial admin created")
	return true, nil
}
