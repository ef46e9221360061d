package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	apperrors "github.com/phishguard/backend/internal/errors"
	"github.com/phishguard/backend/internal/model"
	"github.com/phishguard/backend/pkg/logger"
	"github.com/phishguard/backend/pkg/redis"
	"github.com/phishguard/backend/pkg/scanner"
)

// DomainStore is the durable side of verdict lookups.
type DomainStore interface {
	GetByDomain(ctx context.Context, domain string) (*model.DomainVerdict, error)
	Replace(ctx context.Context, verdict *model.DomainVerdict) error
}

// BlockEventStore records and lists positive-verdict hits.
type BlockEventStore interface {
	Create(ctx context.Context, event *model.BlockEvent) error
	ListByUser(ctx context.Context, userID uint) ([]model.BlockEvent, error)
}

// ContactNotifier alerts a user's trusted contacts about a block.
type ContactNotifier interface {
	NotifyTrustedContacts(ctx context.Context, ownerID uint, payload dto.AlertPayload) error
}

var schemePrefix = regexp.MustCompile(`^(\w+:)?//`)

// NormalizeDomain reduces a URL to the bare domain used as the store
// key: scheme stripped, trailing slashes stripped. The verdict cache
// stays keyed by the raw URL; every write path must keep both aligned.
func NormalizeDomain(url string) string {
	return strings.TrimRight(schemePrefix.ReplaceAllString(url, ""), "/")
}

// PhishingService resolves URLs to verdicts with a cache-aside lookup,
// submits unseen domains for asynchronous analysis, and on a positive
// verdict records the block, issues a one-time code, and alerts the
// user's trusted contacts.
type PhishingService struct {
	domains  DomainStore
	blocks   BlockEventStore
	cache    redis.Client
	scanner  scanner.Submitter
	notifier ContactNotifier
}

func NewPhishingService(
	domains DomainStore,
	blocks BlockEventStore,
	cache redis.Client,
	submitter scanner.Submitter,
	notifier ContactNotifier,
) *PhishingService {
	return &PhishingService{
		domains:  domains,
		blocks:   blocks,
		cache:    cache,
		scanner:  submitter,
		notifier: notifier,
	}
}

// CheckURL classifies a URL for a user. Failures never escape as
// errors; the response carries success=false instead so the client
// always gets a well-formed body.
func (s *PhishingService) CheckURL(ctx context.Context, userID uint, url string) *dto.CheckURLResponse {
	log := logger.GetLogger()
	domain := NormalizeDomain(url)
	cacheKey := constants.CacheKeyPhishingURL + url

	cached, found, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		log.Warn("Verdict cache read failed, falling back to store",
			zap.String("url", url),
			zap.Error(err),
		)
	}
	if found {
		var entry dto.VerdictCacheEntry
		if err := json.Unmarshal([]byte(cached), &entry); err != nil {
			log.Error("Corrupt verdict cache entry",
				zap.String("url", url),
				zap.Error(err),
			)
			return &dto.CheckURLResponse{Success: false, Error: "Invalid cache data"}
		}

		response := &dto.CheckURLResponse{Success: true, IsPhishing: entry.IsPhishing}
		if entry.IsPhishing {
			code, err := s.handleBlocked(ctx, userID, url, domain)
			if err != nil {
				return s.checkFailed(url, err)
			}
			response.Code = code
		}
		return response
	}

	verdict, err := s.domains.GetByDomain(ctx, domain)
	if err != nil {
		return s.checkFailed(url, err)
	}

	visitedBefore := verdict != nil
	if !visitedBefore {
		// Unseen domain: hand it to the scanner and treat it as safe
		// for now. Deliberately no cache write, so the eventual verdict
		// is not shadowed by a provisional "safe".
		if err := s.scanner.Submit(ctx, url); err != nil {
			return s.checkFailed(url, err)
		}
		return &dto.CheckURLResponse{Success: true, IsPhishing: false, VisitedBefore: &visitedBefore}
	}

	entry := dto.VerdictCacheEntry{IsPhishing: verdict.IsPhishing}
	if payload, err := json.Marshal(entry); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(payload), constants.VerdictTTL); err != nil {
			log.Warn("Verdict cache write failed",
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}

	response := &dto.CheckURLResponse{
		Success:       true,
		IsPhishing:    verdict.IsPhishing,
		VisitedBefore: &visitedBefore,
		Explanation:   verdict.Explanation,
	}
	if verdict.IsPhishing {
		code, err := s.handleBlocked(ctx, userID, url, domain)
		if err != nil {
			return s.checkFailed(url, err)
		}
		response.Code = code
	}
	return response
}

// handleBlocked runs the positive-verdict side effects: one BlockEvent,
// one fanout pass over the trust graph, one fresh one-time code.
func (s *PhishingService) handleBlocked(ctx context.Context, userID uint, url, domain string) (string, error) {
	if err := s.blocks.Create(ctx, &model.BlockEvent{
		UserID: userID,
		URL:    url,
		Domain: domain,
	}); err != nil {
		return "", err
	}

	// The blocked listing is cache-the-response; drop it so the new
	// event shows up on the next read.
	if err := s.cache.Del(ctx, constants.CacheKeyBlockedPhishing+formatUserID(userID)); err != nil {
		logger.GetLogger().Warn("Failed to invalidate blocked list cache",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}

	code, err := generateSixDigitCode()
	if err != nil {
		return "", err
	}

	if err := s.notifier.NotifyTrustedContacts(ctx, userID, dto.AlertPayload{
		Title: "Phishing Alert",
		Body:  "A trusted contact was prevented from accessing a phishing website",
		Data: map[string]interface{}{
			"url":  url,
			"code": code,
		},
	}); err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, constants.CacheKeyPhishingCode+code, url, constants.VerificationCodeTTL); err != nil {
		return "", err
	}

	return code, nil
}

func (s *PhishingService) checkFailed(url string, err error) *dto.CheckURLResponse {
	logger.GetLogger().Error("URL check failed",
		zap.String("url", url),
		zap.Error(err),
	)
	return &dto.CheckURLResponse{Success: false, Error: apperrors.GetErrorMessage(apperrors.ErrCheckFailed)}
}

// SubmitVerdict replaces the stored verdict for a URL's domain and
// refreshes the verdict cache. The cache write happens even when the
// store write fails: the submission stays visible to checkers for its
// TTL, at the cost of possible cache/store divergence until the next
// successful submission.
func (s *PhishingService) SubmitVerdict(ctx context.Context, req dto.SubmitVerdictRequest) error {
	domain := NormalizeDomain(req.URL)

	entry := dto.VerdictCacheEntry{
		IsPhishing:  req.IsPhishing,
		Explanation: req.Explanation,
	}
	payload, marshalErr := json.Marshal(entry)

	storeErr := s.domains.Replace(ctx, &model.DomainVerdict{
		Domain:      domain,
		IsPhishing:  req.IsPhishing,
		Explanation: req.Explanation,
		Confidence:  req.Confidence,
	})

	if marshalErr == nil {
		cacheKey := constants.CacheKeyPhishingURL + req.URL
		if err := s.cache.Set(ctx, cacheKey, string(payload), constants.SubmittedVerdictTTL); err != nil {
			logger.GetLogger().Error("Verdict cache update failed",
				zap.String("url", req.URL),
				zap.Error(err),
			)
		}
	}

	if storeErr != nil {
		logger.GetLogger().Error("Failed to store submitted verdict",
			zap.String("url", req.URL),
			zap.String("domain", domain),
			zap.Bool("is_phishing", req.IsPhishing),
			zap.Error(storeErr),
		)
		return apperrors.WrapError(apperrors.ErrSubmitFailed, storeErr)
	}

	return nil
}

// ResolveCode looks up the URL behind a one-time verification code.
func (s *PhishingService) ResolveCode(ctx context.Context, code string) (string, error) {
	url, found, err := s.cache.Get(ctx, constants.CacheKeyPhishingCode+code)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !found {
		return "", apperrors.ErrCodeNotFound
	}
	return url, nil
}

// BlockedEvents lists a user's block history, oldest first, cached as
// the serialized response body.
func (s *PhishingService) BlockedEvents(ctx context.Context, userID uint) ([]dto.BlockEventResponse, error) {
	cacheKey := constants.CacheKeyBlockedPhishing + formatUserID(userID)

	if cached, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
		var responses []dto.BlockEventResponse
		if err := json.Unmarshal([]byte(cached), &responses); err == nil {
			return responses, nil
		}
	}

	events, err := s.blocks.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.BlockEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.BlockEventResponse{
			ID:        event.ID,
			URL:       event.URL,
			Domain:    event.Domain,
			Timestamp: event.Timestamp,
		})
	}

	if payload, err := json.Marshal(responses); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(payload), constants.BlockedListTTL); err != nil {
			logger.GetLogger().Warn("Failed to cache blocked list",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return responses, nil
}

// generateSixDigitCode returns a random decimal code, zero padded.
// Collisions between concurrently live codes are possible and
// tolerated: a million-code space with a five-minute TTL makes them
// rare, and a collision only redirects a code lookup to another URL.
func generateSixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
