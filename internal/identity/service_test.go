package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/domain"
)

func newTestService() *Service {
	return NewService(repo.NewMemoryAccountRepository(), ServiceConfig{
		JWTSecret: "test-secret",
		Issuer:    "tester",
		Audience:  "clients",
		TokenTTL:  time.Hour,
	}, zerolog.Nop())
}

func TestCreateAccountAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	id, err := svc.CreateAccount(ctx, "joe@example.com", "secret1")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if id.ID == "" {
		t.Fatal("identity id should be generated")
	}

	got, err := svc.VerifyCredential(ctx, "joe@example.com", "secret1")
	if err != nil {
		t.Fatalf("VerifyCredential returned error: %v", err)
	}
	if got.ID != id.ID {
		t.Fatalf("VerifyCredential id = %q, want %q", got.ID, id.ID)
	}
}

func TestCreateAccountStoresTrimmedEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	id, err := svc.CreateAccount(ctx, "  joe@example.com  ", "secret1")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if id.Email != "joe@example.com" {
		t.Fatalf("stored email = %q, want trimmed address", id.Email)
	}

	// The canonical address must work for login, padded or not.
	if _, err := svc.VerifyCredential(ctx, "joe@example.com", "secret1"); err != nil {
		t.Fatalf("VerifyCredential(canonical) returned error: %v", err)
	}
	if _, err := svc.VerifyCredential(ctx, " joe@example.com ", "secret1"); err != nil {
		t.Fatalf("VerifyCredential(padded) returned error: %v", err)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"malformed email", "not-an-email", "secret1", domain.ErrInvalidEmail},
		{"empty email", "", "secret1", domain.ErrInvalidEmail},
		{"short password", "joe@example.com", "12345", domain.ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateAccount(ctx, tt.email, tt.password); !errors.Is(err, tt.want) {
				t.Fatalf("CreateAccount() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.CreateAccount(ctx, "joe@example.com", "secret1"); err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if _, err := svc.CreateAccount(ctx, "Joe@Example.com", "secret2"); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestVerifyCredentialFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.CreateAccount(ctx, "joe@example.com", "secret1"); err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if _, err := svc.VerifyCredential(ctx, "nobody@example.com", "secret1"); !errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("unknown email: got %v, want ErrUnknownAccount", err)
	}
	if _, err := svc.VerifyCredential(ctx, "joe@example.com", "wrongpw"); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredential", err)
	}
}

func TestIssueAndAuthenticateToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	id, err := svc.CreateAccount(ctx, "joe@example.com", "secret1")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	token, err := svc.IssueToken(id)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	got, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if got.ID != id.ID || got.Email != "joe@example.com" {
		t.Fatalf("Authenticate returned %+v", got)
	}
	if _, err := svc.Authenticate(ctx, token+"tampered"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("tampered token: got %v, want ErrUnauthorized", err)
	}
}

func TestSendPasswordResetUnknownAccount(t *testing.T) {
	svc := newTestService()
	if err := svc.SendPasswordReset(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("got %v, want ErrUnknownAccount", err)
	}
}

func TestSetDisplayName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	id, err := svc.CreateAccount(ctx, "joe@example.com", "secret1")
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if err := svc.SetDisplayName(ctx, id.ID, "Joe's Cafe"); err != nil {
		t.Fatalf("SetDisplayName returned error: %v", err)
	}
	got, err := svc.VerifyCredential(ctx, "joe@example.com", "secret1")
	if err != nil {
		t.Fatalf("VerifyCredential returned error: %v", err)
	}
	if got.DisplayName != "Joe's Cafe" {
		t.Fatalf("DisplayName = %q, want %q", got.DisplayName, "Joe's Cafe")
	}
}
