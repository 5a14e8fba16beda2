package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"PFTproject/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -destination=./mocks/mock_repository.go -package=mocks PFTproject/service Repository

type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, username, email, password string) (int, error)
	GetTransactionByID(ctx context.Context, id int) (models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID int) ([]models.Transaction, error)
	GetUserTransactionsByType(ctx context.Context, userID int, txType string) ([]models.Transaction, error)
	GetUserTransactionsBetween(ctx context.Context, userID int, from, to time.Time) ([]models.Transaction, error)
	AddTransaction(ctx context.Context, t models.Transaction) (int, error)
	UpdateTransaction(ctx context.Context, t models.Transaction) error
	DeleteTransaction(ctx context.Context, id int) error
	GetBudgetByID(ctx context.Context, id int) (models.Budget, error)
	GetUserBudgets(ctx context.Context, userID int) ([]models.Budget, error)
	GetUserBudgetByCategory(ctx context.Context, userID int, category string) (models.Budget, error)
	AddBudget(ctx context.Context, b models.Budget) (int, error)
	UpdateBudget(ctx context.Context, b models.Budget) error
	DeleteBudget(ctx context.Context, id int) error
}

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

var (
	ErrInvalidCredentials     = errors.New("неверные учетные данные")
	ErrUsernameTaken          = errors.New("имя пользователя уже занято")
	ErrEmailTaken             = errors.New("email уже используется")
	ErrUserNotFound           = errors.New("пользователь не найден")
	ErrTransactionNotFound    = errors.New("транзакция не найдена")
	ErrInvalidTransactionType = errors.New("неверный тип транзакции")
	ErrBudgetNotFound         = errors.New("бюджет не найден")
	ErrBudgetExists           = errors.New("бюджет для этой категории уже существует")
)

type Service struct {
	repo      Repository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration) Service {
	return Service{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Type        string
}

type BudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Spent    decimal.Decimal
}

type TransactionFilter struct {
	Type string
	From time.Time
	To   time.Time
}

func (s Service) Register(
	ctx context.Context,
	username, email, password string,
) (int, error) {
	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrUsernameTaken
	}
	used, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if used {
		return 0, ErrEmailTaken
	}
	hashed, err := bcryptHash(password)
	if err != nil {
		return 0, err
	}
	return s.repo.CreateUser(ctx, username, email, hashed)
}

func (s Service) Authenticate(
	ctx context.Context,
	username, password string,
) (string, models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, err
	}
	if !bcryptCompare(user.Password, password) {
		return "", models.User{}, ErrInvalidCredentials
	}
	token, err := generateJWT(user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

func (s Service) ResolveUser(
	ctx context.Context,
	username string,
) (models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s Service) ListTransactions(
	ctx context.Context,
	userID int,
	filter TransactionFilter,
) ([]models.Transaction, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() {
		transactions, err := s.repo.GetUserTransactionsBetween(ctx, userID, filter.From, filter.To)
		if err != nil {
			return nil, err
		}
		if filter.Type == "" {
			return transactions, nil
		}
		var filtered []models.Transaction
		for _, t := range transactions {
			if t.Type == filter.Type {
				filtered = append(filtered, t)
			}
		}
		return filtered, nil
	}
	if filter.Type != "" {
		return s.repo.GetUserTransactionsByType(ctx, userID, filter.Type)
	}
	return s.repo.GetUserTransactions(ctx, userID)
}

func (s Service) CreateTransaction(
	ctx context.Context,
	userID int,
	input TransactionInput,
) (models.Transaction, error) {
	if input.Type != TypeIncome && input.Type != TypeExpense {
		return models.Transaction{}, ErrInvalidTransactionType
	}
	t := models.Transaction{
		Description: input.Description,
		Amount:      input.Amount,
		Date:        input.Date,
		Category:    input.Category,
		Type:        input.Type,
		UserID:      userID,
	}
	id, err := s.repo.AddTransaction(ctx, t)
	if err != nil {
		return models.Transaction{}, err
	}
	t.ID = id
	return t, nil
}

func (s Service) GetTransaction(
	ctx context.Context,
	userID, id int,
) (models.Transaction, error) {
	return s.ownedTransaction(ctx, userID, id)
}

func (s Service) UpdateTransaction(
	ctx context.Context,
	userID, id int,
	input TransactionInput,
) (models.Transaction, error) {
	if input.Type != TypeIncome && input.Type != TypeExpense {
		return models.Transaction{}, ErrInvalidTransactionType
	}
	t, err := s.ownedTransaction(ctx, userID, id)
	if err != nil {
		return models.Transaction{}, err
	}
	t.Description = input.Description
	t.Amount = input.Amount
	t.Date = input.Date
	t.Category = input.Category
	t.Type = input.Type
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func (s Service) DeleteTransaction(
	ctx context.Context,
	userID, id int,
) error {
	if _, err := s.ownedTransaction(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteTransaction(ctx, id)
}

// Чужая и несуществующая записи неразличимы для вызывающего.
func (s Service) ownedTransaction(
	ctx context.Context,
	userID, id int,
) (models.Transaction, error) {
	t, err := s.repo.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, ErrTransactionNotFound
		}
		return models.Transaction{}, err
	}
	if t.UserID != userID {
		return models.Transaction{}, ErrTransactionNotFound
	}
	return t, nil
}

func (s Service) ListBudgets(
	ctx context.Context,
	userID int,
) ([]models.Budget, error) {
	return s.repo.GetUserBudgets(ctx, userID)
}

func (s Service) CreateBudget(
	ctx context.Context,
	userID int,
	input BudgetInput,
) (models.Budget, error) {
	_, err := s.repo.GetUserBudgetByCategory(ctx, userID, input.Category)
	if err == nil {
		return models.Budget{}, ErrBudgetExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Budget{}, err
	}
	b := models.Budget{
		Category: input.Category,
		Amount:   input.Amount,
		Spent:    input.Spent,
		UserID:   userID,
	}
	id, err := s.repo.AddBudget(ctx, b)
	if err != nil {
		return models.Budget{}, err
	}
	b.ID = id
	return b, nil
}

func (s Service) GetBudget(
	ctx context.Context,
	userID, id int,
) (models.Budget, error) {
	return s.ownedBudget(ctx, userID, id)
}

func (s Service) UpdateBudget(
	ctx context.Context,
	userID, id int,
	input BudgetInput,
) (models.Budget, error) {
	b, err := s.ownedBudget(ctx, userID, id)
	if err != nil {
		return models.Budget{}, err
	}
	b.Category = input.Category
	b.Amount = input.Amount
	b.Spent = input.Spent
	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

func (s Service) DeleteBudget(
	ctx context.Context,
	userID, id int,
) error {
	if _, err := s.ownedBudget(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteBudget(ctx, id)
}

func (s Service) ownedBudget(
	ctx context.Context,
	userID, id int,
) (models.Budget, error) {
	b, err := s.repo.GetBudgetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Budget{}, ErrBudgetNotFound
		}
		return models.Budget{}, err
	}
	if b.UserID != userID {
		return models.Budget{}, ErrBudgetNotFound
	}
	return b, nil
}

func bcryptHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func bcryptCompare(hashed, password string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashed),
		[]byte(password),
	)
	return err == nil
}

func generateJWT(
	user models.User,
	secret string,
	ttl time.Duration,
) (string, error) {
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub":     user.Username,
			"user_id": user.ID,
			"exp":     time.Now().Add(ttl).Unix(),
		},
	)
	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return tokenStr, nil
}
