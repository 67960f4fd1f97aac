package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/http-api/models"

	"gorm.io/gorm"
)

// BookLoanCount is an aggregate row for the most-borrowed listing.
type BookLoanCount struct {
	BookID int64  `json:"book_id"`
	Title  string `json:"title"`
	Count  int64  `json:"count"`
}

// UserLoanCount is an aggregate row for the top-borrowers listing.
type UserLoanCount struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Count  int64  `json:"count"`
}

type LoanRepository interface {
	// CreateWithStock inserts the loan and takes one copy off the shelf in a
	// single transaction. Returns false (and no loan) when the book is out of
	// stock.
	CreateWithStock(ctx context.Context, loan *models.Loan) (bool, error)
	// MarkReturned persists the return and puts the copy back, returning the
	// book's quantity after the restock.
	MarkReturned(ctx context.Context, loan *models.Loan) (int, error)
	FindByID(ctx context.Context, id int64) (*models.Loan, error)
	FindActiveByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Loan, error)
	FindUnreturnedByUser(ctx context.Context, userID string) ([]models.Loan, error)
	FindUnreturned(ctx context.Context) ([]models.Loan, error)
	FindOverdue(ctx context.Context, now time.Time) ([]models.Loan, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.LoanStatus) error
	ListHistoryForUser(ctx context.Context, userID string, limit int) ([]models.Loan, error)
	CountAll(ctx context.Context) (int64, error)
	CountUnreturned(ctx context.Context) (int64, error)
	TopBooks(ctx context.Context, limit int) ([]BookLoanCount, error)
	TopBorrowers(ctx context.Context, limit int) ([]UserLoanCount, error)
	Recent(ctx context.Context, limit int) ([]models.Loan, error)
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithStock(ctx context.Context, loan *models.Loan) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND quantity > 0", loan.BookID).
			UpdateColumn("quantity", gorm.Expr("quantity - 1"))
		if res.Error != nil {
			return fmt.Errorf("decrement stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// no copy left; nothing to roll back
			return nil
		}
		if err := tx.Create(loan).Error; err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		created = true
		return nil
	})
	return created, err
}

func (r *loanRepository) MarkReturned(ctx context.Context, loan *models.Loan) (int, error) {
	quantity := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Loan{}).
			Where("id = ?", loan.ID).
			Updates(map[string]interface{}{
				"returned_at": loan.ReturnedAt,
				"status":      loan.Status,
			}).Error
		if err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}

		if loan.BookID == nil {
			// the book was removed from the catalog while on loan
			return nil
		}

		res := tx.Model(&models.Book{}).
			Where("id = ?", *loan.BookID).
			UpdateColumn("quantity", gorm.Expr("quantity + 1"))
		if res.Error != nil {
			return fmt.Errorf("increment stock: %w", res.Error)
		}

		var b models.Book
		if err := tx.Select("quantity").First(&b, *loan.BookID).Error; err != nil {
			return err
		}
		quantity = b.Quantity
		return nil
	})
	return quantity, err
}

func (r *loanRepository) FindByID(ctx context.Context, id int64) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindActiveByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND returned_at IS NULL", userID, bookID).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindUnreturnedByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND returned_at IS NULL", userID).
		Order("borrowed_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) FindUnreturned(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Where("returned_at IS NULL").
		Order("due_at ASC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Where("returned_at IS NULL AND due_at < ?", now).
		Order("due_at ASC").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("returned_at IS NULL AND due_at < ?", now).
		Count(&count).Error
	return count, err
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id int64, status models.LoanStatus) error {
	return r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *loanRepository) ListHistoryForUser(ctx context.Context, userID string, limit int) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND returned_at IS NOT NULL", userID).
		Order("returned_at DESC").
		Limit(limit).
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&count).Error
	return count, err
}

func (r *loanRepository) CountUnreturned(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("returned_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *loanRepository) TopBooks(ctx context.Context, limit int) ([]BookLoanCount, error) {
	var rows []BookLoanCount
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Select("books.id AS book_id, books.title AS title, COUNT(loans.id) AS count").
		Joins("JOIN books ON books.id = loans.book_id").
		Group("books.id, books.title").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *loanRepository) TopBorrowers(ctx context.Context, limit int) ([]UserLoanCount, error) {
	var rows []UserLoanCount
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Select("users.id AS user_id, users.email AS email, COUNT(loans.id) AS count").
		Joins("JOIN users ON users.id = loans.user_id").
		Group("users.id, users.email").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *loanRepository) Recent(ctx context.Context, limit int) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Order("borrowed_at DESC").
		Limit(limit).
		Find(&loans).Error
	return loans, err
}
