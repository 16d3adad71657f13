package handlers

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
	"fintrack/internal/settings"
)

func setupSettingsRouter(t *testing.T, userSvc *mockUserService) (*gin.Engine, *settings.Store) {
	t.Helper()
	store := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	handler := NewSettingsHandler(store, userSvc)

	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/settings", handler.GetSettings)
	auth.PUT("/settings", handler.UpdateSettings)
	auth.GET("/profile/settings", handler.GetDisplaySettings)
	auth.PUT("/profile/settings", handler.UpdateDisplaySettings)
	return r, store
}

func TestSettingsHandler_GetSettings(t *testing.T) {
	t.Run("returns defaults for fresh store", func(t *testing.T) {
		r, _ := setupSettingsRouter(t, &mockUserService{})

		rec := doRequest(r, "GET", "/settings", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		cfg := result["settings"].(map[string]interface{})
		if cfg["theme"] != "light" {
			t.Errorf("expected theme light, got %v", cfg["theme"])
		}
		if cfg["backup_interval_days"].(float64) != 7 {
			t.Errorf("expected backup interval 7, got %v", cfg["backup_interval_days"])
		}
	})
}

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	t.Run("persists changes", func(t *testing.T) {
		r, store := setupSettingsRouter(t, &mockUserService{})

		rec := doRequest(r, "PUT", "/settings",
			`{"theme":"dark","font_family":"Courier New","font_size":12,"color_scheme":"purple","backup_dir":"/tmp/b","export_dir":"/tmp/e","auto_backup":true,"backup_interval_days":14}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		saved, err := store.Load()
		if err != nil {
			t.Fatalf("failed to reload settings: %v", err)
		}
		if saved.Theme != "dark" || saved.BackupIntervalDays != 14 {
			t.Errorf("expected saved settings, got %+v", saved)
		}
	})

	t.Run("out of range values degrade to defaults", func(t *testing.T) {
		r, _ := setupSettingsRouter(t, &mockUserService{})

		rec := doRequest(r, "PUT", "/settings", `{"theme":"sepia","font_size":500}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		cfg := result["settings"].(map[string]interface{})
		if cfg["theme"] != "light" {
			t.Errorf("expected theme reset to light, got %v", cfg["theme"])
		}
		if cfg["font_size"].(float64) != 10 {
			t.Errorf("expected font size reset to 10, got %v", cfg["font_size"])
		}
	})
}

func TestSettingsHandler_DisplaySettings(t *testing.T) {
	t.Run("get returns user settings", func(t *testing.T) {
		userSvc := &mockUserService{
			getDisplaySettingsFn: func(userID uint) (models.DisplaySettings, error) {
				return models.DisplaySettings{Theme: "dark", FontFamily: "Arial", FontSize: 10, ColorScheme: "default"}, nil
			},
		}
		r, _ := setupSettingsRouter(t, userSvc)

		rec := doRequest(r, "GET", "/profile/settings", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		cfg := result["settings"].(map[string]interface{})
		if cfg["theme"] != "dark" {
			t.Errorf("expected theme dark, got %v", cfg["theme"])
		}
	})

	t.Run("put updates user settings", func(t *testing.T) {
		var gotSettings models.DisplaySettings
		userSvc := &mockUserService{
			updateDisplaySettingsFn: func(_ uint, settings models.DisplaySettings) (models.DisplaySettings, error) {
				gotSettings = settings
				settings.Backfill()
				return settings, nil
			},
		}
		r, _ := setupSettingsRouter(t, userSvc)

		rec := doRequest(r, "PUT", "/profile/settings", `{"theme":"dark"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotSettings.Theme != "dark" {
			t.Errorf("expected theme dark passed through, got %s", gotSettings.Theme)
		}
		result := parseJSON(t, rec)
		cfg := result["settings"].(map[string]interface{})
		if cfg["font_family"] != "Arial" {
			t.Errorf("expected backfilled font family, got %v", cfg["font_family"])
		}
	})
}
