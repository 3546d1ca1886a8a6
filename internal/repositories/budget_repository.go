package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/mvaldivia/soltrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBudgetNotFound = errors.New("budget not found")

// budgetRepository implements BudgetRepositoryInterface
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{db: db}
}

// ListForOwner retrieves all budgets for a user
func (r *budgetRepository) ListForOwner(userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.Where("user_id = ?", userID).
		Order("category ASC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// Upsert creates the budget or, when one already exists for the
// (user, category) pair, updates its limit and currency in place.
func (r *budgetRepository) Upsert(budget *models.Budget) error {
	var existing models.Budget
	err := r.db.Where("user_id = ? AND category = ?", budget.UserID, budget.Category).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(budget).Error; err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up budget: %w", err)
	}

	result := r.db.Model(&models.Budget{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"monthly_limit": budget.MonthlyLimit,
			"currency":      budget.Currency,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update budget: %w", result.Error)
	}

	budget.ID = existing.ID
	return nil
}

// Delete removes a budget, scoped to its owner
func (r *budgetRepository) Delete(id uuid.UUID, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
