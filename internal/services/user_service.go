package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/database"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	store *database.Manager
}

// NewUserService creates a new UserServicer.
func NewUserService(store *database.Manager) UserServicer {
	return &userService{store: store}
}

// Register creates a new user with a bcrypt-hashed password and the default
// display settings. A username or email collision is reported as a single
// combined failure so the response never confirms which one is taken.
func (s *userService) Register(username, password, fullName string, email *string) (*models.User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)

	if username == "" || password == "" || fullName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "username, password and full name are required")
	}
	if email != nil {
		trimmed := strings.ToLower(strings.TrimSpace(*email))
		if trimmed == "" {
			email = nil
		} else {
			email = &trimmed
		}
	}

	db := s.store.DB()

	var count int64
	query := db.Model(&models.User{}).Where("username = ?", username)
	if email != nil {
		query = db.Model(&models.User{}).Where("username = ? OR email = ?", username, *email)
	}
	if err := query.Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings, err := models.DefaultDisplaySettings().Encode()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		FullName: fullName,
		Email:    email,
		Settings: settings,
	}

	if err := db.Create(user).Error; err != nil {
		// A concurrent insert can still trip the unique indexes; surface it
		// the same way as the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and wrong
// passwords return the same generic error.
func (s *userService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.store.DB().Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.store.DB().First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetDisplaySettings returns the user's display settings, backfilled with
// defaults for keys the stored blob predates.
func (s *userService) GetDisplaySettings(userID uint) (models.DisplaySettings, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return models.DisplaySettings{}, err
	}
	return models.DisplaySettingsFrom(user.Settings), nil
}

// UpdateDisplaySettings stores new display settings for the user and returns
// them after validation backfill.
func (s *userService) UpdateDisplaySettings(userID uint, settings models.DisplaySettings) (models.DisplaySettings, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return models.DisplaySettings{}, err
	}

	settings.Backfill()
	blob, err := settings.Encode()
	if err != nil {
		return models.DisplaySettings{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.store.DB().Model(user).Update("settings", blob).Error; err != nil {
		return models.DisplaySettings{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}
