package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskcheck/api/internal/domain/user"
	"github.com/taskcheck/api/internal/http/handlers"
	"github.com/taskcheck/api/internal/repo/postgres"
	"github.com/taskcheck/api/internal/security"
)

type fakeUserStore struct {
	createFn     func(ctx context.Context, email, passwordHash string) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
}

func (f *fakeUserStore) Create(ctx context.Context, email, passwordHash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash)
	}
	return user.User{ID: 1, Email: email}, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, postgres.ErrUserNotFound
}

type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) GenerateToken(userID int64, email string) (string, error) {
	return f.token, f.err
}

func setupAuthRouter(path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.POST(path, h)
	return r
}

func TestRegister(t *testing.T) {
	t.Run("creates user and returns id and email", func(t *testing.T) {
		var gotHash string
		store := &fakeUserStore{
			createFn: func(ctx context.Context, email, passwordHash string) (user.User, error) {
				gotHash = passwordHash
				return user.User{ID: 42, Email: email}, nil
			},
		}
		h := handlers.NewAuthHandler(store, &fakeIssuer{})
		r := setupAuthRouter("/api/auth/register", h.Register)

		w := doJSON(r, http.MethodPost, "/api/auth/register", `{"email":"alice@example.com","password":"s3cret-pass"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
		}

		var body struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body.ID != 42 || body.Email != "alice@example.com" {
			t.Fatalf("body = %+v", body)
		}

		// The plaintext never reaches the store.
		if gotHash == "s3cret-pass" || gotHash == "" {
			t.Fatalf("store received %q, want a bcrypt hash", gotHash)
		}
		if err := security.CheckPassword(gotHash, "s3cret-pass"); err != nil {
			t.Fatalf("stored hash does not verify: %v", err)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name         string
			payload      string
			wantProperty string
		}{
			{"malformed email", `{"email":"not-an-email","password":"s3cret-pass"}`, "email"},
			{"short password", `{"email":"alice@example.com","password":"short"}`, "password"},
			{"missing email", `{"password":"s3cret-pass"}`, "email"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := handlers.NewAuthHandler(&fakeUserStore{}, &fakeIssuer{})
				r := setupAuthRouter("/api/auth/register", h.Register)

				w := doJSON(r, http.MethodPost, "/api/auth/register", tt.payload)
				if w.Code != http.StatusUnprocessableEntity {
					t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
				}

				var body errorBody
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if body.Error != "VALIDATION_FAILED" {
					t.Fatalf("error = %q", body.Error)
				}
				if len(body.Messages) == 0 || body.Messages[0].Property != tt.wantProperty {
					t.Fatalf("violations = %+v, want property %q", body.Messages, tt.wantProperty)
				}
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := &fakeUserStore{
			createFn: func(ctx context.Context, email, passwordHash string) (user.User, error) {
				return user.User{}, postgres.ErrEmailTaken
			},
		}
		h := handlers.NewAuthHandler(store, &fakeIssuer{})
		r := setupAuthRouter("/api/auth/register", h.Register)

		w := doJSON(r, http.MethodPost, "/api/auth/register", `{"email":"alice@example.com","password":"s3cret-pass"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		var body errorBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body.Error != "EMAIL_ALREADY_EXISTS" || body.Message != "Email already exists." {
			t.Fatalf("body = %+v", body)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		h := handlers.NewAuthHandler(&fakeUserStore{}, &fakeIssuer{})
		r := setupAuthRouter("/api/auth/register", h.Register)

		w := doJSON(r, http.MethodPost, "/api/auth/register", `{"email":`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		var body errorBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body.Error != "INVALID_JSON" {
			t.Fatalf("error = %q", body.Error)
		}
	})
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	knownUser := user.User{ID: 42, Email: "alice@example.com", PasswordHash: hash}

	storeWithAlice := func() *fakeUserStore {
		return &fakeUserStore{
			getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				if email == knownUser.Email {
					return knownUser, nil
				}
				return user.User{}, postgres.ErrUserNotFound
			},
		}
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		h := handlers.NewAuthHandler(storeWithAlice(), &fakeIssuer{token: "aaa.bbb.ccc"})
		r := setupAuthRouter("/api/auth/login", h.Login)

		w := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
		}

		var body struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(strings.Split(body.Token, ".")) != 3 {
			t.Fatalf("token %q is not a JWT", body.Token)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, payload := range []string{`{}`, `{"email":"alice@example.com"}`, `{"password":"s3cret-pass"}`} {
			h := handlers.NewAuthHandler(storeWithAlice(), &fakeIssuer{})
			r := setupAuthRouter("/api/auth/login", h.Login)

			w := doJSON(r, http.MethodPost, "/api/auth/login", payload)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("payload %s: status = %d", payload, w.Code)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Message != "'email' and 'password' are required." {
				t.Fatalf("message = %q", body.Message)
			}
		}
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		h := handlers.NewAuthHandler(storeWithAlice(), &fakeIssuer{})
		r := setupAuthRouter("/api/auth/login", h.Login)

		unknown := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"s3cret-pass"}`)
		wrongPw := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong-pass"}`)

		if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
			t.Fatalf("statuses = %d / %d", unknown.Code, wrongPw.Code)
		}
		if unknown.Body.String() != wrongPw.Body.String() {
			t.Fatalf("responses differ:\n%s\n%s", unknown.Body.String(), wrongPw.Body.String())
		}

		var body errorBody
		if err := json.Unmarshal(unknown.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if body.Message != "Invalid credentials." {
			t.Fatalf("message = %q", body.Message)
		}
	})
}
