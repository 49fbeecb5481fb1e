package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/models"
	"github.com/ignatzorin/docmint-backend/internal/pkg/apperror"
	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, refreshToken string) error
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	AcceptDisclaimer(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo          AuthRepository
	tokenManager  *TokenManager
	freeSaveLimit int
}

// SignupInput содержит данные пользователя при регистрации.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionMeta описывает клиента, открывшего сессию.
type SessionMeta struct {
	UserAgent string
	IP        string
}

// Account пользователь вместе с вычисленными правами тарифа.
type Account struct {
	*models.User
	CanSaveDocument bool `json:"canSaveDocument"`
	SaveLimit       *int `json:"saveLimit"`
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	Account *Account   `json:"user"`
	Tokens  *TokenPair `json:"tokens"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager, freeSaveLimit int) *AuthService {
	return &AuthService{
		repo:          repo,
		tokenManager:  tokenManager,
		freeSaveLimit: freeSaveLimit,
	}
}

// Signup создаёт нового пользователя на бесплатном тарифе и открывает сессию.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, meta SessionMeta) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	errs := validation.Errors{}
	errs.Add("email", validation.ValidateEmail(in.Email))
	errs.Add("password", validation.ValidatePassword(in.Password))
	errs.Add("name", validation.ValidateName(in.Name))
	if !errs.Empty() {
		return nil, apperror.Validation("некорректные данные регистрации", errs)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &models.User{
		Email:            in.Email,
		Name:             in.Name,
		PasswordHash:     string(passHash),
		SubscriptionTier: models.TierFree,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperror.ErrEmailTaken
		}
		return nil, apperror.Database(err)
	}

	return s.openSession(ctx, user, meta)
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta SessionMeta) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Validation("некорректный email", map[string]string{"email": err.Error()})
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, apperror.Database(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	// Ошибка обновления last_login_at не прерывает вход.
	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		logger.L().WithFields(map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("auth service: не удалось обновить last_login_at")
	}

	return s.openSession(ctx, user, meta)
}

// Refresh выпускает новую пару токенов, старая сессия удаляется.
func (s *AuthService) Refresh(ctx context.Context, oldToken string, meta SessionMeta) (*TokenPair, error) {
	userID, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.ErrInvalidRefreshToken
	}

	if err := s.repo.DeleteSession(ctx, oldToken); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperror.ErrInvalidRefreshToken
		}
		return nil, apperror.Database(err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidRefreshToken
		}
		return nil, apperror.Database(err)
	}

	result, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	return result.Tokens, nil
}

// Logout закрывает сессию. Неизвестный токен не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.repo.DeleteSession(ctx, refreshToken)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return apperror.Database(err)
	}
	return nil
}

// Me возвращает аккаунт текущего пользователя.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*Account, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.account(user), nil
}

// AcceptDisclaimer фиксирует согласие пользователя с отказом от ответственности.
func (s *AuthService) AcceptDisclaimer(ctx context.Context, userID uuid.UUID) (*Account, error) {
	if err := s.repo.AcceptDisclaimer(ctx, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Database(err)
	}
	return s.Me(ctx, userID)
}

func (s *AuthService) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Database(err)
	}
	return user, nil
}

func (s *AuthService) account(user *models.User) *Account {
	acc := &Account{
		User:            user,
		CanSaveDocument: user.CanSaveDocument(s.freeSaveLimit),
	}
	if !user.IsPro() {
		limit := s.freeSaveLimit
		acc.SaveLimit = &limit
	}
	return acc
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, meta SessionMeta) (*AuthResult, error) {
	tokenPair, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IP != "" {
		session.IPAddress = &meta.IP
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, apperror.Database(err)
	}

	return &AuthResult{
		Account: s.account(user),
		Tokens:  tokenPair,
	}, nil
}
