package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	apperrors "github.com/phishguard/backend/internal/errors"
	"github.com/phishguard/backend/internal/model"
	"github.com/phishguard/backend/pkg/logger"
	"github.com/phishguard/backend/pkg/redis"
)

// SessionStore is the durable side of session lookups.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetByTokenWithUser(ctx context.Context, token string) (*model.Session, error)
}

// SessionService resolves opaque tokens to users with a cache-aside
// lookup over Redis and the session table. Unknown tokens are cached
// negatively so repeated probes do not hammer the store.
type SessionService struct {
	sessions SessionStore
	cache    redis.Client
}

func NewSessionService(sessions SessionStore, cache redis.Client) *SessionService {
	return &SessionService{
		sessions: sessions,
		cache:    cache,
	}
}

// Create mints a new high-entropy session token for a user and
// persists it. The cache entry is seeded by the caller so signup and
// login can batch their cache writes.
func (s *SessionService) Create(ctx context.Context, userID uint) (*model.Session, error) {
	raw := make([]byte, constants.SessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	session := &model.Session{
		UserID: userID,
		Token:  hex.EncodeToString(raw),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		logger.GetLogger().Error("Failed to persist session",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return session, nil
}

// Validate resolves a token to its owning user. The cache is consulted
// first and trusted verbatim, including negative entries; on a miss the
// store decides and the result is cached either way. A store failure
// fails closed: the caller sees an invalid session, never a guess.
func (s *SessionService) Validate(ctx context.Context, token string) (*dto.UserResponse, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidSession
	}

	cacheKey := constants.CacheKeySession + token

	cached, found, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		// Cache outage must not take down a request the store can
		// satisfy on its own; fall through to the lookup.
		logger.GetLogger().Warn("Session cache read failed, falling back to store",
			zap.Error(err),
		)
	}
	if found {
		var entry dto.SessionCacheEntry
		if err := json.Unmarshal([]byte(cached), &entry); err != nil {
			// An entry that cannot be deserialized is not a miss; the
			// decision it held is unknown, so fail closed.
			logger.GetLogger().Warn("Corrupt session cache entry",
				zap.Error(err),
			)
			return nil, apperrors.ErrInvalidSession
		}
		if !entry.Valid || entry.User == nil {
			return nil, apperrors.ErrInvalidSession
		}
		return entry.User, nil
	}

	session, err := s.sessions.GetByTokenWithUser(ctx, token)
	if err != nil {
		logger.GetLogger().Error("Session store lookup failed",
			zap.Error(err),
		)
		return nil, apperrors.ErrInvalidSession
	}

	if session == nil {
		s.writeCacheEntry(ctx, cacheKey, dto.SessionCacheEntry{Valid: false}, constants.SessionNegativeTTL)
		return nil, apperrors.ErrInvalidSession
	}

	user := s.userResponse(&session.User)
	s.writeCacheEntry(ctx, cacheKey, dto.SessionCacheEntry{Valid: true, User: &user}, constants.SessionPositiveTTL)
	return &user, nil
}

// Invalidate removes the cached session entry. The durable row is kept
// as session history; only the cache grants access.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Del(ctx, constants.CacheKeySession+token); err != nil {
		logger.GetLogger().Error("Failed to invalidate session cache entry",
			zap.Error(err),
		)
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

// SeedCache writes a positive session entry for a freshly issued token
// so the first authenticated request after signup or login skips the
// store.
func (s *SessionService) SeedCache(ctx context.Context, token string, user dto.UserResponse) {
	s.writeCacheEntry(ctx, constants.CacheKeySession+token, dto.SessionCacheEntry{Valid: true, User: &user}, constants.SessionPositiveTTL)
}

func (s *SessionService) writeCacheEntry(ctx context.Context, key string, entry dto.SessionCacheEntry, ttl time.Duration) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), ttl); err != nil {
		logger.GetLogger().Warn("Session cache write failed",
			zap.Error(err),
		)
	}
}

func (s *SessionService) userResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}
