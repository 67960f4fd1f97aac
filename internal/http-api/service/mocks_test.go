package service

import (
	"context"
	"time"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// --- MOCK REPOSITORIES ---

type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) GetAll(ctx context.Context, filters repository.BookFilters, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, filters, page, pageSize)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepo) Create(ctx context.Context, b *models.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepo) Update(ctx context.Context, id int64, b *models.Book) error {
	args := m.Called(ctx, id, b)
	return args.Error(0)
}

func (m *MockBookRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepo) Search(ctx context.Context, query string) ([]models.Book, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepo) ReplaceAuthors(ctx context.Context, id int64, authors []models.Author) error {
	args := m.Called(ctx, id, authors)
	return args.Error(0)
}

func (m *MockBookRepo) DecrementStock(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookRepo) IncrementStock(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockBookRepo) UpdateRatingStats(ctx context.Context, id int64, average *float64, count int) error {
	args := m.Called(ctx, id, average, count)
	return args.Error(0)
}

func (m *MockBookRepo) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepo) CountAvailable(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepo) FindLowStock(ctx context.Context, threshold int) ([]models.Book, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepo) FindOutOfStock(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Book), args.Error(1)
}

type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) CreateWithStock(ctx context.Context, loan *models.Loan) (bool, error) {
	args := m.Called(ctx, loan)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepo) MarkReturned(ctx context.Context, loan *models.Loan) (int, error) {
	args := m.Called(ctx, loan)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepo) FindByID(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepo) FindActiveByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Loan, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanRepo) FindUnreturnedByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanRepo) FindUnreturned(ctx context.Context) ([]models.Loan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanRepo) FindOverdue(ctx context.Context, now time.Time) ([]models.Loan, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanRepo) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepo) UpdateStatus(ctx context.Context, id int64, status models.LoanStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLoanRepo) ListHistoryForUser(ctx context.Context, userID string, limit int) ([]models.Loan, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanRepo) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepo) CountUnreturned(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepo) TopBooks(ctx context.Context, limit int) ([]repository.BookLoanCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.BookLoanCount), args.Error(1)
}

func (m *MockLoanRepo) TopBorrowers(ctx context.Context, limit int) ([]repository.UserLoanCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.UserLoanCount), args.Error(1)
}

func (m *MockLoanRepo) Recent(ctx context.Context, limit int) ([]models.Loan, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Loan), args.Error(1)
}

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *models.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepo) FindByID(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepo) FindOpenByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Reservation, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListOpenForUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListPendingForBook(ctx context.Context, bookID int64) ([]models.Reservation, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockReservationRepo) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepo) GetByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepo) GetUnreadByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepo) CountUnreadByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, userID string, notificationID int64) (bool, error) {
	args := m.Called(ctx, userID, notificationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) Delete(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockReviewRepo) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Review, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepo) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, bookID, page, pageSize)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepo) AverageForBook(ctx context.Context, bookID int64) (float64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReviewRepo) CountForBook(ctx context.Context, bookID int64) (int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepo) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepo) GlobalAverage(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type MockWishlistRepo struct {
	mock.Mock
}

func (m *MockWishlistRepo) Add(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockWishlistRepo) Remove(ctx context.Context, userID string, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistRepo) List(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistRepo) Exists(ctx context.Context, userID string, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

// --- MOCK MAILER ---

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendReturnReminder(ctx context.Context, to, firstName, bookTitle string, daysRemaining int) error {
	args := m.Called(ctx, to, firstName, bookTitle, daysRemaining)
	return args.Error(0)
}

func (m *MockMailer) SendOverdueNotice(ctx context.Context, to, firstName, bookTitle string, daysOverdue int) error {
	args := m.Called(ctx, to, firstName, bookTitle, daysOverdue)
	return args.Error(0)
}

func (m *MockMailer) SendBookAvailable(ctx context.Context, to, firstName, bookTitle string) error {
	args := m.Called(ctx, to, firstName, bookTitle)
	return args.Error(0)
}

func (m *MockMailer) SendWelcome(ctx context.Context, to, firstName string) error {
	args := m.Called(ctx, to, firstName)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, firstName, token string) error {
	args := m.Called(ctx, to, firstName, token)
	return args.Error(0)
}
