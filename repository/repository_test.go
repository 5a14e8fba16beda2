package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"PFTproject/models"
	"PFTproject/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_GetUserByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, username, email, password FROM users WHERE username=$1",
	)).
		WithArgs("alice").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "username", "email", "password"}).
				AddRow(1, "alice", "alice@example.com", "hash"),
		)

	repo := repository.NewPostgresRepository(db)
	user, err := repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, models.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hash",
	}, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetUserByUsername_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, username, email, password FROM users WHERE username=$1",
	)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	repo := repository.NewPostgresRepository(db)
	_, err = repo.GetUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UsernameExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)",
	)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := repository.NewPostgresRepository(db)
	exists, err := repo.UsernameExists(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_AddTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("3.50")

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO transactions (description, amount, date, category, type, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
	)).
		WithArgs("Coffee", amount, date, "Food", "expense", 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	repo := repository.NewPostgresRepository(db)
	id, err := repo.AddTransaction(context.Background(), models.Transaction{
		Description: "Coffee",
		Amount:      amount,
		Date:        date,
		Category:    "Food",
		Type:        "expense",
		UserID:      7,
	})
	require.NoError(t, err)
	require.Equal(t, 42, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetUserTransactionsByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, description, amount, date, category, type, user_id").
		WithArgs(7, "expense").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "description", "amount", "date", "category", "type", "user_id"}).
				AddRow(42, "Coffee", "3.50", date, "Food", "expense", 7),
		)

	repo := repository.NewPostgresRepository(db)
	transactions, err := repo.GetUserTransactionsByType(context.Background(), 7, "expense")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, 42, transactions[0].ID)
	require.Equal(t, 7, transactions[0].UserID)
	require.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("3.50")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM transactions WHERE id=$1",
	)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := repository.NewPostgresRepository(db)
	err = repo.DeleteTransaction(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetUserBudgetByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, category, amount, spent, user_id FROM budgets WHERE user_id=$1 AND category=$2",
	)).
		WithArgs(7, "Food").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "category", "amount", "spent", "user_id"}).
				AddRow(5, "Food", "200.00", "35.00", 7),
		)

	repo := repository.NewPostgresRepository(db)
	budget, err := repo.GetUserBudgetByCategory(context.Background(), 7, "Food")
	require.NoError(t, err)
	require.Equal(t, 5, budget.ID)
	require.True(t, budget.Amount.Equal(decimal.RequireFromString("200.00")))
	require.True(t, budget.Spent.Equal(decimal.RequireFromString("35.00")))
	require.NoError(t, mock.ExpectationsWereMet())
}
