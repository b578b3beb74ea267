package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"safegear/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

func testUser(email string) *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "Amina",
		LastName:     "Otieno",
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := testUser("amina-" + uuid.NewString()[:8] + "@safegear.co.ke")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	byEmail, err := repo.FindByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("find by email failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, byEmail.ID)
	}
	if byEmail.Role != "admin" {
		t.Errorf("expected role admin, got %q", byEmail.Role)
	}

	byID, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id failed: %v", err)
	}
	if byID.Email != user.Email {
		t.Errorf("expected email %q, got %q", user.Email, byID.Email)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@safegear.co.ke"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	email := "dup-" + uuid.NewString()[:8] + "@safegear.co.ke"
	if err := repo.Create(ctx, testUser(email)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Create(ctx, testUser(email)); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
}

// Stored password hashes round-trip intact and never equal the plaintext
func TestProperty_StoredPasswordHashesVerify(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("stored hashes verify against the original password", prop.ForAll(
		func(email string, password string) bool {
			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				t.Logf("FAIL: could not hash password: %v", err)
				return false
			}

			user := testUser(email)
			user.PasswordHash = string(hashed)
			if err := repo.Create(ctx, user); err != nil {
				t.Logf("FAIL: create: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM users WHERE email = $1", email)

			stored, err := repo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("FAIL: find: %v", err)
				return false
			}

			if stored.PasswordHash == password {
				t.Log("FAIL: password stored as plaintext")
				return false
			}

			return bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
