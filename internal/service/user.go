package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	apperrors "github.com/phishguard/backend/internal/errors"
	"github.com/phishguard/backend/internal/model"
	"github.com/phishguard/backend/pkg/logger"
	"github.com/phishguard/backend/pkg/redis"
)

// UserStore is the durable side of user lookups.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

// TrustStore manages the directed trust relation between users.
type TrustStore interface {
	ListTrusted(ctx context.Context, userID uint) ([]model.TrustEdge, error)
	Get(ctx context.Context, userID, trustedUserID uint) (*model.TrustEdge, error)
	Add(ctx context.Context, edge *model.TrustEdge) error
	Remove(ctx context.Context, userID, trustedUserID uint) error
}

// UserService handles signup, login, profile reads, and trust-edge
// management. Profile responses are cached whole under
// user_data:<userId> and dropped on any trust-edge change.
type UserService struct {
	users    UserStore
	trust    TrustStore
	sessions *SessionService
	cache    redis.Client
}

func NewUserService(users UserStore, trust TrustStore, sessions *SessionService, cache redis.Client) *UserService {
	return &UserService{
		users:    users,
		trust:    trust,
		sessions: sessions,
		cache:    cache,
	}
}

// Signup registers a new user and issues a session. The session,
// notification-list, and profile caches are seeded so the app's first
// authenticated requests after signup are all cache hits.
func (s *UserService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Email:    req.Email,
		Password: string(hashed),
		FullName: req.FullName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	response := s.userResponse(user)
	s.sessions.SeedCache(ctx, session.Token, response)
	s.seedCaches(ctx, user.ID, response)

	return &dto.AuthResponse{Token: session.Token, User: response}, nil
}

// Login verifies credentials and issues a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	response := s.userResponse(user)
	s.sessions.SeedCache(ctx, session.Token, response)

	return &dto.AuthResponse{Token: session.Token, User: response}, nil
}

// UpdateProfile applies partial changes to the caller's account. A
// password change needs both the current and the new password, and the
// current one must verify against the stored hash. The cached profile
// is dropped so the next read sees the change.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if (req.CurrentPassword == "") != (req.NewPassword == "") {
		return nil, apperrors.ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if existing != nil {
			return nil, apperrors.ErrEmailExists
		}
		user.Email = *req.Email
	}

	if req.CurrentPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return nil, apperrors.ErrIncorrectPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidateProfile(ctx, userID)

	response := s.userResponse(user)
	return &response, nil
}

// Profile returns the user's identity and trusted-contact list, cached
// as the whole response.
func (s *UserService) Profile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	cacheKey := constants.CacheKeyUserData + formatUserID(userID)

	if cached, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
		var profile dto.ProfileResponse
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return &profile, nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	trusted, err := s.ListTrusted(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.ProfileResponse{
		User:         s.userResponse(user),
		TrustedUsers: trusted,
	}

	if payload, err := json.Marshal(profile); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(payload), constants.UserDataTTL); err != nil {
			logger.GetLogger().Warn("Failed to cache user profile",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return profile, nil
}

// ListTrusted returns the user's direct trusted contacts.
func (s *UserService) ListTrusted(ctx context.Context, userID uint) ([]dto.TrustedUserResponse, error) {
	edges, err := s.trust.ListTrusted(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	trusted := make([]dto.TrustedUserResponse, 0, len(edges))
	for _, edge := range edges {
		trusted = append(trusted, dto.TrustedUserResponse{
			ID:        edge.TrustedUserID,
			Email:     edge.TrustedUser.Email,
			FullName:  edge.TrustedUser.FullName,
			TrustedAt: edge.CreatedAt,
		})
	}
	return trusted, nil
}

// AddTrusted creates a trust edge toward the user owning the given
// email and drops the cached profile.
func (s *UserService) AddTrusted(ctx context.Context, userID uint, email string) error {
	target, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if target == nil {
		return apperrors.ErrUserNotFound
	}

	existing, err := s.trust.Get(ctx, userID, target.ID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		return apperrors.ErrAlreadyTrusted
	}

	if err := s.trust.Add(ctx, &model.TrustEdge{
		UserID:        userID,
		TrustedUserID: target.ID,
	}); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidateProfile(ctx, userID)
	return nil
}

// RemoveTrusted deletes a trust edge and drops the cached profile.
// Removing an edge that does not exist is a no-op.
func (s *UserService) RemoveTrusted(ctx context.Context, userID, trustedUserID uint) error {
	if err := s.trust.Remove(ctx, userID, trustedUserID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidateProfile(ctx, userID)
	return nil
}

func (s *UserService) invalidateProfile(ctx context.Context, userID uint) {
	if err := s.cache.Del(ctx, constants.CacheKeyUserData+formatUserID(userID)); err != nil {
		logger.GetLogger().Warn("Failed to invalidate profile cache",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}

// seedCaches primes the per-user caches a fresh account will read
// first: an empty notification list and a profile with no contacts.
func (s *UserService) seedCaches(ctx context.Context, userID uint, user dto.UserResponse) {
	id := formatUserID(userID)

	if payload, err := json.Marshal([]dto.NotificationResponse{}); err == nil {
		if err := s.cache.Set(ctx, constants.CacheKeyNotifications+id, string(payload), constants.NotificationListTTL); err != nil {
			logger.GetLogger().Warn("Failed to seed notification list cache",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}

	profile := dto.ProfileResponse{
		User:         user,
		TrustedUsers: []dto.TrustedUserResponse{},
	}
	if payload, err := json.Marshal(profile); err == nil {
		if err := s.cache.Set(ctx, constants.CacheKeyUserData+id, string(payload), constants.UserDataTTL); err != nil {
			logger.GetLogger().Warn("Failed to seed profile cache",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}
}

func (s *UserService) userResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}
