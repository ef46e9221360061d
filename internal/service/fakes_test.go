package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/phishguard/backend/internal/dto"
	"github.com/phishguard/backend/internal/model"
)

// fakeCache is an in-memory stand-in for the Redis client that can be
// forced to fail and inspected for TTLs.
type fakeCache struct {
	mu      sync.Mutex
	items   map[string]fakeCacheItem
	failGet bool
	failSet bool
}

type fakeCacheItem struct {
	value     string
	ttl       time.Duration
	expiresAt time.Time
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]fakeCacheItem)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return "", false, errors.New("cache unavailable")
	}
	item, found := c.items[key]
	if !found || time.Now().After(item.expiresAt) {
		return "", false, nil
	}
	return item.value, true, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errors.New("cache unavailable")
	}
	c.items[key] = fakeCacheItem{value: value, ttl: ttl, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }
func (c *fakeCache) Close() error                   { return nil }
func (c *fakeCache) IsEnabled() bool                { return true }

func (c *fakeCache) get(key string) (fakeCacheItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, found := c.items[key]
	return item, found
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	nextID   uint
	failures bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (s *fakeSessionStore) Create(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures {
		return errors.New("store unavailable")
	}
	s.nextID++
	session.ID = s.nextID
	s.sessions[session.Token] = session
	return nil
}

func (s *fakeSessionStore) GetByTokenWithUser(ctx context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures {
		return nil, errors.New("store unavailable")
	}
	session, found := s.sessions[token]
	if !found {
		return nil, nil
	}
	return session, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	byID   map[uint]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[uint]*model.User)}
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id], nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	s.byID[user.ID] = user
	return nil
}

func (s *fakeUserStore) Update(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[user.ID] = user
	return nil
}

type fakeDomainStore struct {
	mu          sync.Mutex
	verdicts    map[string]*model.DomainVerdict
	failReplace bool
}

func newFakeDomainStore() *fakeDomainStore {
	return &fakeDomainStore{verdicts: make(map[string]*model.DomainVerdict)}
}

func (s *fakeDomainStore) GetByDomain(ctx context.Context, domain string) (*model.DomainVerdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verdicts[domain], nil
}

func (s *fakeDomainStore) Replace(ctx context.Context, verdict *model.DomainVerdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReplace {
		return errors.New("store unavailable")
	}
	s.verdicts[verdict.Domain] = verdict
	return nil
}

type fakeBlockEventStore struct {
	mu     sync.Mutex
	events []model.BlockEvent
	nextID uint
}

func (s *fakeBlockEventStore) Create(ctx context.Context, event *model.BlockEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	event.ID = s.nextID
	event.Timestamp = time.Now()
	s.events = append(s.events, *event)
	return nil
}

func (s *fakeBlockEventStore) ListByUser(ctx context.Context, userID uint) ([]model.BlockEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []model.BlockEvent
	for _, event := range s.events {
		if event.UserID == userID {
			events = append(events, event)
		}
	}
	return events, nil
}

func (s *fakeBlockEventStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type fakeTrustStore struct {
	mu    sync.Mutex
	edges []model.TrustEdge
}

func (s *fakeTrustStore) ListTrusted(ctx context.Context, userID uint) ([]model.TrustEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var edges []model.TrustEdge
	for _, edge := range s.edges {
		if edge.UserID == userID {
			edges = append(edges, edge)
		}
	}
	return edges, nil
}

func (s *fakeTrustStore) Get(ctx context.Context, userID, trustedUserID uint) (*model.TrustEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, edge := range s.edges {
		if edge.UserID == userID && edge.TrustedUserID == trustedUserID {
			found := edge
			return &found, nil
		}
	}
	return nil, nil
}

func (s *fakeTrustStore) Add(ctx context.Context, edge *model.TrustEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	edge.CreatedAt = time.Now()
	s.edges = append(s.edges, *edge)
	return nil
}

func (s *fakeTrustStore) Remove(ctx context.Context, userID, trustedUserID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.edges[:0]
	for _, edge := range s.edges {
		if edge.UserID != userID || edge.TrustedUserID != trustedUserID {
			kept = append(kept, edge)
		}
	}
	s.edges = kept
	return nil
}

type fakeDeviceTokenStore struct {
	mu     sync.Mutex
	tokens []model.DeviceToken
	nextID uint
}

func (s *fakeDeviceTokenStore) ListByUser(ctx context.Context, userID uint) ([]model.DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tokens []model.DeviceToken
	for _, token := range s.tokens {
		if token.UserID == userID {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

func (s *fakeDeviceTokenStore) GetByToken(ctx context.Context, token string) (*model.DeviceToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (s *fakeDeviceTokenStore) Create(ctx context.Context, token *model.DeviceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	token.ID = s.nextID
	s.tokens = append(s.tokens, *token)
	return nil
}

func (s *fakeDeviceTokenStore) DeleteByToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tokens[:0]
	for _, t := range s.tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	s.tokens = kept
	return nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []model.Notification
	nextID        uint
}

func (s *fakeNotificationStore) Create(ctx context.Context, notification *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	notification.ID = s.nextID
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *fakeNotificationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

func (s *fakeNotificationStore) ListByUser(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var notifications []model.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			notifications = append(notifications, s.notifications[i])
			if limit > 0 && len(notifications) == limit {
				break
			}
		}
	}
	return notifications, nil
}

type fakeScanner struct {
	mu          sync.Mutex
	submissions []string
	fail        bool
}

func (s *fakeScanner) Submit(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("scanner unavailable")
	}
	s.submissions = append(s.submissions, url)
	return nil
}

func (s *fakeScanner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submissions)
}

type fakeNotifier struct {
	mu       sync.Mutex
	owners   []uint
	payloads []dto.AlertPayload
	fail     bool
}

func (n *fakeNotifier) NotifyTrustedContacts(ctx context.Context, ownerID uint, payload dto.AlertPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("fanout unavailable")
	}
	n.owners = append(n.owners, ownerID)
	n.payloads = append(n.payloads, payload)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.owners)
}
