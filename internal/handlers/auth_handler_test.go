package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/validator"
)

// --- mock user service ---

type mockUserService struct {
	registerFn              func(username, password, fullName string, email *string) (*models.User, error)
	authenticateFn          func(username, password string) (*models.User, error)
	getUserByIDFn           func(id uint) (*models.User, error)
	getDisplaySettingsFn    func(userID uint) (models.DisplaySettings, error)
	updateDisplaySettingsFn func(userID uint, settings models.DisplaySettings) (models.DisplaySettings, error)
}

func (m *mockUserService) Register(username, password, fullName string, email *string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(username, password, fullName, email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Authenticate(username, password string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetDisplaySettings(userID uint) (models.DisplaySettings, error) {
	if m.getDisplaySettingsFn != nil {
		return m.getDisplaySettingsFn(userID)
	}
	return models.DefaultDisplaySettings(), nil
}

func (m *mockUserService) UpdateDisplaySettings(userID uint, settings models.DisplaySettings) (models.DisplaySettings, error) {
	if m.updateDisplaySettingsFn != nil {
		return m.updateDisplaySettingsFn(userID, settings)
	}
	settings.Backfill()
	return settings, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	return r
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with token", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(username, password, fullName string, email *string) (*models.User, error) {
				return &models.User{
					Base:     models.Base{ID: 7},
					Username: username,
					FullName: fullName,
					Email:    email,
				}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"alice","password":"password123","confirm_password":"password123","full_name":"Alice Smith","email":"alice@example.com"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil || result["token"] == "" {
			t.Error("expected a token in the response")
		}
		user := result["user"].(map[string]interface{})
		if user["username"] != "alice" {
			t.Errorf("expected username alice, got %v", user["username"])
		}
	})

	t.Run("returns 400 on password mismatch", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"alice","password":"password123","confirm_password":"different","full_name":"Alice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"alice","password":"short","confirm_password":"short","full_name":"Alice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate user", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(string, string, string, *string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUser
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"alice","password":"password123","confirm_password":"password123","full_name":"Alice"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_USER")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with token and settings", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(username, password string) (*models.User, error) {
				settings, _ := models.DefaultDisplaySettings().Encode()
				return &models.User{
					Base:     models.Base{ID: 3},
					Username: username,
					FullName: "Alice Smith",
					Settings: settings,
				}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login",
			`{"username":"alice","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] == nil {
			t.Error("expected a token")
		}
		settings := result["settings"].(map[string]interface{})
		if settings["theme"] != "light" {
			t.Errorf("expected theme light, got %v", settings["theme"])
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(string, string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login",
			`{"username":"alice","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/login", `{"username":"alice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
