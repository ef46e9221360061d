package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/phishguard/backend/internal/constants"
	"github.com/phishguard/backend/internal/dto"
	apperrors "github.com/phishguard/backend/internal/errors"
	"github.com/phishguard/backend/internal/model"
)

type userFixture struct {
	svc      *UserService
	sessions *SessionService
	users    *fakeUserStore
	trust    *fakeTrustStore
	cache    *fakeCache
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users: newFakeUserStore(),
		trust: &fakeTrustStore{},
		cache: newFakeCache(),
	}
	f.sessions = NewSessionService(newFakeSessionStore(), f.cache)
	f.svc = NewUserService(f.users, f.trust, f.sessions, f.cache)
	return f
}

func (f *userFixture) createUser(t *testing.T, email, password, name string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &model.User{Email: email, Password: string(hashed), FullName: name}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func TestSignup_IssuesSessionAndSeedsCaches(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	response, err := f.svc.Signup(ctx, dto.SignupRequest{
		Email:    "new@user.test",
		Password: "supersecret",
		FullName: "New User",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if response.Token == "" {
		t.Fatal("Expected a session token")
	}
	if response.User.Email != "new@user.test" {
		t.Errorf("Unexpected user %+v", response.User)
	}

	// The fresh token validates straight from the cache.
	user, err := f.sessions.Validate(ctx, response.Token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if user.ID != response.User.ID {
		t.Errorf("Session resolves to user %d, want %d", user.ID, response.User.ID)
	}

	id := formatUserID(response.User.ID)
	if _, found := f.cache.get(constants.CacheKeyNotifications + id); !found {
		t.Error("Expected seeded notification list cache")
	}
	item, found := f.cache.get(constants.CacheKeyUserData + id)
	if !found {
		t.Fatal("Expected seeded profile cache")
	}
	var profile dto.ProfileResponse
	if err := json.Unmarshal([]byte(item.value), &profile); err != nil {
		t.Fatalf("Failed to parse seeded profile: %v", err)
	}
	if len(profile.TrustedUsers) != 0 {
		t.Errorf("Expected empty trusted list, got %+v", profile.TrustedUsers)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newUserFixture()
	f.createUser(t, "taken@user.test", "password1", "Existing")

	_, err := f.svc.Signup(context.Background(), dto.SignupRequest{
		Email:    "taken@user.test",
		Password: "password2",
		FullName: "Other",
	})
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newUserFixture()
	f.createUser(t, "known@user.test", "correct-horse", "Known")
	ctx := context.Background()

	response, err := f.svc.Login(ctx, dto.LoginRequest{Email: "known@user.test", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if _, err := f.sessions.Validate(ctx, response.Token); err != nil {
		t.Errorf("Issued token does not validate: %v", err)
	}

	// Unknown email and wrong password look identical to the caller.
	_, badUser := f.svc.Login(ctx, dto.LoginRequest{Email: "nobody@user.test", Password: "whatever"})
	_, badPass := f.svc.Login(ctx, dto.LoginRequest{Email: "known@user.test", Password: "wrong"})
	if !errors.Is(badUser, apperrors.ErrInvalidCredentials) || !errors.Is(badPass, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for both, got %v / %v", badUser, badPass)
	}
}

func TestProfile_CacheAside(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	owner := f.createUser(t, "owner@user.test", "password1", "Owner")
	contact := f.createUser(t, "contact@user.test", "password1", "Contact")
	f.trust.Add(ctx, &model.TrustEdge{UserID: owner.ID, TrustedUserID: contact.ID, TrustedUser: *contact})

	profile, err := f.svc.Profile(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if len(profile.TrustedUsers) != 1 || profile.TrustedUsers[0].Email != "contact@user.test" {
		t.Fatalf("Unexpected trusted list %+v", profile.TrustedUsers)
	}

	item, found := f.cache.get(constants.CacheKeyUserData + formatUserID(owner.ID))
	if !found {
		t.Fatal("Expected profile cache entry")
	}
	if item.ttl != constants.UserDataTTL {
		t.Errorf("Expected profile TTL %v, got %v", constants.UserDataTTL, item.ttl)
	}

	// Cached copy answers even if the trust store changes underneath.
	f.trust.Remove(ctx, owner.ID, contact.ID)
	cachedProfile, err := f.svc.Profile(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if len(cachedProfile.TrustedUsers) != 1 {
		t.Error("Expected stale cached profile until invalidation")
	}
}

func TestAddTrusted(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	owner := f.createUser(t, "owner@user.test", "password1", "Owner")
	contact := f.createUser(t, "contact@user.test", "password1", "Contact")

	// Prime the profile cache so the add can invalidate it.
	if _, err := f.svc.Profile(ctx, owner.ID); err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}

	if err := f.svc.AddTrusted(ctx, owner.ID, "contact@user.test"); err != nil {
		t.Fatalf("AddTrusted returned error: %v", err)
	}

	if _, found := f.cache.get(constants.CacheKeyUserData + formatUserID(owner.ID)); found {
		t.Error("Expected profile cache to be invalidated")
	}

	if err := f.svc.AddTrusted(ctx, owner.ID, "contact@user.test"); !errors.Is(err, apperrors.ErrAlreadyTrusted) {
		t.Errorf("Expected ErrAlreadyTrusted, got %v", err)
	}
	if err := f.svc.AddTrusted(ctx, owner.ID, "ghost@user.test"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	edge, _ := f.trust.Get(ctx, owner.ID, contact.ID)
	if edge == nil {
		t.Error("Expected trust edge to be persisted")
	}
}

func TestRemoveTrusted(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	owner := f.createUser(t, "owner@user.test", "password1", "Owner")
	contact := f.createUser(t, "contact@user.test", "password1", "Contact")
	f.trust.Add(ctx, &model.TrustEdge{UserID: owner.ID, TrustedUserID: contact.ID})

	if err := f.svc.RemoveTrusted(ctx, owner.ID, contact.ID); err != nil {
		t.Fatalf("RemoveTrusted returned error: %v", err)
	}

	edge, _ := f.trust.Get(ctx, owner.ID, contact.ID)
	if edge != nil {
		t.Error("Expected trust edge to be removed")
	}

	// Removing a missing edge is a no-op, not an error.
	if err := f.svc.RemoveTrusted(ctx, owner.ID, contact.ID); err != nil {
		t.Errorf("Expected no-op removal, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	user := f.createUser(t, "owner@user.test", "password1", "Owner")

	// Prime the profile cache so the update has something to drop.
	if _, err := f.svc.Profile(ctx, user.ID); err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}

	name := "Renamed Owner"
	updated, err := f.svc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{FullName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FullName != "Renamed Owner" {
		t.Errorf("FullName = %q, want %q", updated.FullName, "Renamed Owner")
	}

	if _, found := f.cache.get(constants.CacheKeyUserData + formatUserID(user.ID)); found {
		t.Error("Expected profile cache to be dropped after update")
	}

	stored, _ := f.users.GetByID(ctx, user.ID)
	if stored.FullName != "Renamed Owner" {
		t.Errorf("Stored FullName = %q, want %q", stored.FullName, "Renamed Owner")
	}
}

func TestUpdateProfile_PasswordChange(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	user := f.createUser(t, "owner@user.test", "password1", "Owner")

	// New password without the current one is rejected.
	_, err := f.svc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{NewPassword: "password2"})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}

	// Wrong current password is rejected.
	_, err = f.svc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{
		CurrentPassword: "wrong",
		NewPassword:     "password2",
	})
	if !errors.Is(err, apperrors.ErrIncorrectPassword) {
		t.Fatalf("Expected ErrIncorrectPassword, got %v", err)
	}

	_, err = f.svc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{
		CurrentPassword: "password1",
		NewPassword:     "password2",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	if _, err := f.svc.Login(ctx, dto.LoginRequest{Email: "owner@user.test", Password: "password2"}); err != nil {
		t.Errorf("Login with new password failed: %v", err)
	}
	if _, err := f.svc.Login(ctx, dto.LoginRequest{Email: "owner@user.test", Password: "password1"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected old password to be rejected, got %v", err)
	}
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	user := f.createUser(t, "owner@user.test", "password1", "Owner")
	f.createUser(t, "taken@user.test", "password1", "Other")

	taken := "taken@user.test"
	if _, err := f.svc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{Email: &taken}); !errors.Is(err, apperrors.ErrEmailExists) {
		t.Fatalf("Expected ErrEmailExists, got %v", err)
	}

	fresh := "fresh@user.test"
	if _, err := f.svc.UpdateProfile(ctx, user.ID, dto.UpdateProfileRequest{Email: &fresh}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if found, _ := f.users.GetByEmail(ctx, "fresh@user.test"); found == nil || found.ID != user.ID {
		t.Error("Expected email to be updated")
	}
}
