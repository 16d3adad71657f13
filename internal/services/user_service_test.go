package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		email := "alice@example.com"
		user, err := svc.Register("alice", "password123", "Alice Smith", &email)
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if user.Settings == "" {
			t.Error("expected default settings blob to be stored")
		}
	})

	t.Run("without_email", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		user, err := svc.Register("bob", "password123", "Bob Jones", nil)
		testutil.AssertNoError(t, err)
		if user.Email != nil {
			t.Errorf("expected nil email, got %v", *user.Email)
		}
	})

	t.Run("blank_email_treated_as_absent", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		blank := "   "
		user, err := svc.Register("carol", "password123", "Carol White", &blank)
		testutil.AssertNoError(t, err)
		if user.Email != nil {
			t.Errorf("expected nil email, got %v", *user.Email)
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		_, err := svc.Register("dave", "password123", "Dave One", nil)
		testutil.AssertNoError(t, err)

		_, err = svc.Register("dave", "password456", "Dave Two", nil)
		testutil.AssertAppError(t, err, "DUPLICATE_USER")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		email := "shared@example.com"
		_, err := svc.Register("erin", "password123", "Erin One", &email)
		testutil.AssertNoError(t, err)

		upper := "SHARED@example.com"
		_, err = svc.Register("frank", "password123", "Frank Two", &upper)
		testutil.AssertAppError(t, err, "DUPLICATE_USER")
	})

	t.Run("missing_fields", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		_, err := svc.Register("", "password123", "No Name", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.Register("grace", "", "Grace Hopper", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.Register("heidi", "password123", "   ", nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		created := testutil.CreateTestUser(t, mgr.DB())

		user, err := svc.Authenticate(created.Username, "password123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user ID %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		created := testutil.CreateTestUser(t, mgr.DB())

		_, err := svc.Authenticate(created.Username, "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_username_same_error", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		_, err := svc.Authenticate("nobody", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestDisplaySettings(t *testing.T) {
	t.Run("defaults_for_new_user", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		user := testutil.CreateTestUser(t, mgr.DB())

		settings, err := svc.GetDisplaySettings(user.ID)
		testutil.AssertNoError(t, err)
		if settings.Theme != "light" || settings.FontFamily != "Arial" || settings.FontSize != 10 {
			t.Errorf("expected default settings, got %+v", settings)
		}
	})

	t.Run("update_round_trip", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		user := testutil.CreateTestUser(t, mgr.DB())

		updated, err := svc.UpdateDisplaySettings(user.ID, models.DisplaySettings{
			Theme:       "dark",
			FontFamily:  "Courier New",
			FontSize:    12,
			ColorScheme: "purple",
		})
		testutil.AssertNoError(t, err)
		if updated.Theme != "dark" {
			t.Errorf("expected theme dark, got %s", updated.Theme)
		}

		stored, err := svc.GetDisplaySettings(user.ID)
		testutil.AssertNoError(t, err)
		if stored != updated {
			t.Errorf("expected stored settings %+v, got %+v", updated, stored)
		}
	})

	t.Run("partial_update_backfilled", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		user := testutil.CreateTestUser(t, mgr.DB())

		updated, err := svc.UpdateDisplaySettings(user.ID, models.DisplaySettings{Theme: "dark"})
		testutil.AssertNoError(t, err)
		if updated.FontFamily != "Arial" || updated.FontSize != 10 || updated.ColorScheme != "default" {
			t.Errorf("expected backfilled defaults, got %+v", updated)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		mgr := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, mgr)
		svc := NewUserService(mgr)

		_, err := svc.GetDisplaySettings(99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
