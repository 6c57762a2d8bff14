package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storeops/replenish-backend/internal/domain"
)

type fakeUserRepo struct {
	users   map[string]*domain.User
	nextUID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}, nextUID: 1}
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	user, ok := r.users[login]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.UID = r.nextUID
	r.nextUID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func TestSignUpThenSignIn(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret")
	ctx := context.Background()

	user := &domain.User{ID: "clerk1", Name: "Clerk One"}
	if err := auth.SignUp(ctx, user, "hunter2"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if repo.users["clerk1"].PW == "hunter2" {
		t.Fatal("password stored in plain text")
	}

	got, pair, err := auth.SignIn(ctx, "clerk1", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.ID != "clerk1" {
		t.Fatalf("signed in as %q", got.ID)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("expected both tokens to be issued")
	}

	login, err := auth.VerifyToken(pair.Access)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if login != "clerk1" {
		t.Fatalf("token subject = %q, want clerk1", login)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret")
	ctx := context.Background()

	if err := auth.SignUp(ctx, &domain.User{ID: "clerk1"}, "hunter2"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, _, err := auth.SignIn(ctx, "clerk1", "wrong"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("err = %v, want ErrBadCredentials", err)
	}
	if _, _, err := auth.SignIn(ctx, "nobody", "hunter2"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret")
	ctx := context.Background()

	if err := auth.SignUp(ctx, &domain.User{ID: "clerk1"}, "hunter2"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	_, pair, err := auth.SignIn(ctx, "clerk1", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	user, next, err := auth.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if user.ID != "clerk1" {
		t.Fatalf("refreshed as %q", user.ID)
	}
	if next.Access == "" || next.Refresh == "" {
		t.Fatal("expected a fresh token pair")
	}
}

func TestVerifyTokenRejectsForgedSignature(t *testing.T) {
	auth := NewAuthService(newFakeUserRepo(), "test-secret")
	other := NewAuthService(newFakeUserRepo(), "other-secret")

	pair, err := other.issueTokens("clerk1")
	if err != nil {
		t.Fatalf("issueTokens: %v", err)
	}
	if _, err := auth.VerifyToken(pair.Access); err == nil {
		t.Fatal("expected a token signed with another secret to be rejected")
	}
}

func TestResolveUID(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret")
	ctx := context.Background()

	if err := auth.SignUp(ctx, &domain.User{ID: "clerk1"}, "hunter2"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	uid, err := auth.ResolveUID(ctx, "clerk1")
	if err != nil {
		t.Fatalf("ResolveUID: %v", err)
	}
	if uid != 1 {
		t.Fatalf("uid = %d, want 1", uid)
	}
}
