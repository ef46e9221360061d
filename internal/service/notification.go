package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	apperrors "github.com/phishguard/backend/internal/errors"
	"github.com/phishguard/backend/internal/model"
	"github.com/phishguard/backend/pkg/logger"
	"github.com/phishguard/backend/pkg/push"
	"github.com/phishguard/backend/pkg/redis"
)

// DeviceTokenStore is the durable side of device-token lookups.
type DeviceTokenStore interface {
	ListByUser(ctx context.Context, userID uint) ([]model.DeviceToken, error)
	GetByToken(ctx context.Context, token string) (*model.DeviceToken, error)
	Create(ctx context.Context, token *model.DeviceToken) error
	DeleteByToken(ctx context.Context, token string) error
}

// NotificationStore persists delivered notifications for later listing.
type NotificationStore interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]model.Notification, error)
}

// TrustEdgeStore lists the direct trust edges of a user.
type TrustEdgeStore interface {
	ListTrusted(ctx context.Context, userID uint) ([]model.TrustEdge, error)
}

// NotificationService fans alerts out to a user's devices over the push
// transport, prunes tokens the transport reports as dead, and keeps the
// per-user notification list cache coherent.
type NotificationService struct {
	devices       DeviceTokenStore
	notifications NotificationStore
	trustEdges    TrustEdgeStore
	cache         redis.Client
	transport     push.Transport
}

func NewNotificationService(
	devices DeviceTokenStore,
	notifications NotificationStore,
	trustEdges TrustEdgeStore,
	cache redis.Client,
	transport push.Transport,
) *NotificationService {
	return &NotificationService{
		devices:       devices,
		notifications: notifications,
		trustEdges:    trustEdges,
		cache:         cache,
		transport:     transport,
	}
}

// SendPush delivers one notification to every registered device of a
// user. Tokens that are not Expo-shaped are skipped; tokens the
// transport reports as DeviceNotRegistered are deleted. A transport
// failure for a batch is returned to the caller; per-ticket errors are
// logged and swallowed.
func (s *NotificationService) SendPush(ctx context.Context, userID uint, title, body string, data map[string]interface{}) error {
	log := logger.GetLogger()

	devices, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if len(devices) == 0 {
		log.Warn("No devices found for user", zap.Uint("user_id", userID))
		return nil
	}

	messages := make([]push.Message, 0, len(devices))
	for _, device := range devices {
		if !push.IsExpoPushToken(device.Token) {
			continue
		}
		messages = append(messages, push.Message{
			To:    device.Token,
			Title: title,
			Body:  body,
			Data:  data,
			Sound: "default",
		})
	}
	if len(messages) == 0 {
		log.Warn("No valid push tokens found for user", zap.Uint("user_id", userID))
		return nil
	}

	for _, chunk := range push.Chunk(messages) {
		tickets, err := s.transport.Send(ctx, chunk)
		if err != nil {
			log.Error("Failed to send push notification batch",
				zap.Uint("user_id", userID),
				zap.Int("batch_size", len(chunk)),
				zap.Error(err),
			)
			return err
		}

		for i, ticket := range tickets {
			if ticket.IsOK() {
				continue
			}

			token := ""
			if i < len(chunk) {
				token = chunk[i].To
			}
			log.Error("Push delivery failed for token",
				zap.Uint("user_id", userID),
				zap.String("token", token),
				zap.String("detail", ticket.Details.Error),
				zap.String("message", ticket.Message),
			)

			if ticket.IsDeviceNotRegistered() && token != "" {
				if err := s.devices.DeleteByToken(ctx, token); err != nil {
					log.Error("Failed to prune dead device token",
						zap.String("token", token),
						zap.Error(err),
					)
				}
			}
		}

		if err := s.cache.Del(ctx, constants.CacheKeyNotifications+formatUserID(userID)); err != nil {
			log.Warn("Failed to invalidate notification list cache",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}

	// Recorded only once every batch went out, so the list endpoint
	// never shows an alert the transport rejected.
	s.record(ctx, userID, title, body, data)

	return nil
}

// NotifyTrustedContacts sends an alert to each contact the owner has
// designated. Contacts are notified sequentially; one contact failing
// does not stop delivery to the rest.
func (s *NotificationService) NotifyTrustedContacts(ctx context.Context, ownerID uint, payload dto.AlertPayload) error {
	edges, err := s.trustEdges.ListTrusted(ctx, ownerID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	for _, edge := range edges {
		if err := s.SendPush(ctx, edge.TrustedUserID, payload.Title, payload.Body, payload.Data); err != nil {
			logger.GetLogger().Error("Failed to notify trusted contact",
				zap.Uint("owner_id", ownerID),
				zap.Uint("contact_id", edge.TrustedUserID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// RegisterDevice stores a device token for the user. A token value
// already registered anywhere is left alone, matching the pruning side
// which also operates on the token value regardless of owner.
func (s *NotificationService) RegisterDevice(ctx context.Context, userID uint, token string) error {
	existing, err := s.devices.GetByToken(ctx, token)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		return nil
	}

	if err := s.devices.Create(ctx, &model.DeviceToken{UserID: userID, Token: token}); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

// List returns a user's notifications, newest first, cached briefly.
func (s *NotificationService) List(ctx context.Context, userID uint, limit int) ([]dto.NotificationResponse, error) {
	cacheKey := constants.CacheKeyNotifications + formatUserID(userID)

	if cached, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
		var responses []dto.NotificationResponse
		if err := json.Unmarshal([]byte(cached), &responses); err == nil {
			return responses, nil
		}
	}

	notifications, err := s.notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		response := dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		}
		if len(n.Data) > 0 {
			var data map[string]interface{}
			if err := json.Unmarshal(n.Data, &data); err == nil {
				response.Data = data
			}
		}
		responses = append(responses, response)
	}

	if payload, err := json.Marshal(responses); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(payload), constants.NotificationListTTL); err != nil {
			logger.GetLogger().Warn("Failed to cache notification list",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return responses, nil
}

// record persists the notification so it shows up in the user's
// listing. Delivery does not depend on this write succeeding.
func (s *NotificationService) record(ctx context.Context, userID uint, title, body string, data map[string]interface{}) {
	notification := &model.Notification{
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if len(data) > 0 {
		if raw, err := json.Marshal(data); err == nil {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		logger.GetLogger().Warn("Failed to persist notification",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}
