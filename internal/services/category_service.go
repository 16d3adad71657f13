package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"fintrack/internal/database"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// defaultCategories is seeded once at first startup as global categories
// visible to every user.
var defaultCategories = []struct {
	Name string
	Type models.CategoryType
}{
	{"Salário", models.CategoryTypeIncome},
	{"Renda Extra", models.CategoryTypeIncome},
	{"Aluguel", models.CategoryTypeExpense},
	{"Alimentação", models.CategoryTypeExpense},
	{"Água", models.CategoryTypeExpense},
	{"Faculdade", models.CategoryTypeExpense},
	{"Seguro", models.CategoryTypeExpense},
	{"Gasolina", models.CategoryTypeExpense},
	{"Manutenção do carro", models.CategoryTypeExpense},
	{"Imposto", models.CategoryTypeExpense},
}

// categoryService handles category-related business logic.
type categoryService struct {
	store *database.Manager
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store *database.Manager) CategoryServicer {
	return &categoryService{store: store}
}

// EnsureDefaultCategories inserts any missing default global categories.
// Safe to call on every startup.
func (s *categoryService) EnsureDefaultCategories() error {
	db := s.store.DB()

	for _, def := range defaultCategories {
		var count int64
		if err := db.Model(&models.Category{}).
			Where("name = ? AND type = ? AND user_id IS NULL", def.Name, def.Type).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}
		category := &models.Category{Name: def.Name, Type: def.Type}
		if err := db.Create(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// CreateCategory creates a category owned by the given user. The type is
// fixed at creation; there is no update path that can change it.
func (s *categoryService) CreateCategory(userID uint, name string, categoryType models.CategoryType) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category name is required")
	}
	if !categoryType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category type must be income or expense")
	}

	db := s.store.DB()

	// Reject a duplicate of any category already visible to this user.
	var count int64
	if err := db.Model(&models.Category{}).
		Where("name = ? AND type = ? AND (user_id IS NULL OR user_id = ?)", name, categoryType, userID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "category with this name and type already exists")
	}

	category := &models.Category{
		Name:   name,
		Type:   categoryType,
		UserID: &userID,
	}
	if err := db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetCategories returns the union of global categories and the user's own,
// optionally filtered by type.
func (s *categoryService) GetCategories(userID uint, categoryType *models.CategoryType) ([]models.Category, error) {
	query := s.store.DB().
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("type, name")
	if categoryType != nil {
		query = query.Where("type = ?", *categoryType)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetVisibleCategory retrieves a category by ID if it is global or owned by
// the given user.
func (s *categoryService) GetVisibleCategory(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.store.DB().
		Where("id = ? AND (user_id IS NULL OR user_id = ?)", categoryID, userID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
