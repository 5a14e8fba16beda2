package repository

import (
	"context"
	"database/sql"
	"time"

	"PFTproject/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) PostgresRepository {
	return PostgresRepository{db: db}
}

func (r PostgresRepository) GetUserByUsername(
	ctx context.Context,
	username string,
) (models.User, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT id, username, email, password FROM users WHERE username=$1",
		username,
	)
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r PostgresRepository) GetUserByID(
	ctx context.Context,
	id int,
) (models.User, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT id, username, email, password FROM users WHERE id=$1",
		id,
	)
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r PostgresRepository) UsernameExists(
	ctx context.Context,
	username string,
) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)",
		username,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r PostgresRepository) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)",
		email,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r PostgresRepository) CreateUser(
	ctx context.Context,
	username, email, password string,
) (int, error) {
	var id int
	err := r.db.QueryRowContext(
		ctx,
		"INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id",
		username, email, password,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r PostgresRepository) GetTransactionByID(
	ctx context.Context,
	id int,
) (models.Transaction, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, description, amount, date, category, type, user_id
		 FROM transactions WHERE id=$1`,
		id,
	)
	var t models.Transaction
	err := row.Scan(
		&t.ID,
		&t.Description,
		&t.Amount,
		&t.Date,
		&t.Category,
		&t.Type,
		&t.UserID,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func (r PostgresRepository) GetUserTransactions(
	ctx context.Context,
	userID int,
) ([]models.Transaction, error) {
	return r.queryTransactions(
		ctx,
		`SELECT id, description, amount, date, category, type, user_id
		 FROM transactions
		 WHERE user_id=$1
		 ORDER BY id`,
		userID,
	)
}

func (r PostgresRepository) GetUserTransactionsByType(
	ctx context.Context,
	userID int,
	txType string,
) ([]models.Transaction, error) {
	return r.queryTransactions(
		ctx,
		`SELECT id, description, amount, date, category, type, user_id
		 FROM transactions
		 WHERE user_id=$1 AND type=$2
		 ORDER BY id`,
		userID, txType,
	)
}

func (r PostgresRepository) GetUserTransactionsBetween(
	ctx context.Context,
	userID int,
	from, to time.Time,
) ([]models.Transaction, error) {
	return r.queryTransactions(
		ctx,
		`SELECT id, description, amount, date, category, type, user_id
		 FROM transactions
		 WHERE user_id=$1 AND date BETWEEN $2 AND $3
		 ORDER BY id`,
		userID, from, to,
	)
}

func (r PostgresRepository) queryTransactions(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.Description,
			&t.Amount,
			&t.Date,
			&t.Category,
			&t.Type,
			&t.UserID,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r PostgresRepository) AddTransaction(
	ctx context.Context,
	t models.Transaction,
) (int, error) {
	var id int
	err := r.db.QueryRowContext(
		ctx,
		`INSERT INTO transactions (description, amount, date, category, type, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		t.Description, t.Amount, t.Date, t.Category, t.Type, t.UserID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r PostgresRepository) UpdateTransaction(
	ctx context.Context,
	t models.Transaction,
) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE transactions
		 SET description=$1, amount=$2, date=$3, category=$4, type=$5
		 WHERE id=$6`,
		t.Description, t.Amount, t.Date, t.Category, t.Type, t.ID,
	)
	return err
}

func (r PostgresRepository) DeleteTransaction(
	ctx context.Context,
	id int,
) error {
	_, err := r.db.ExecContext(
		ctx,
		"DELETE FROM transactions WHERE id=$1",
		id,
	)
	return err
}

func (r PostgresRepository) GetBudgetByID(
	ctx context.Context,
	id int,
) (models.Budget, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT id, category, amount, spent, user_id FROM budgets WHERE id=$1",
		id,
	)
	var b models.Budget
	err := row.Scan(&b.ID, &b.Category, &b.Amount, &b.Spent, &b.UserID)
	if err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

func (r PostgresRepository) GetUserBudgets(
	ctx context.Context,
	userID int,
) ([]models.Budget, error) {
	rows, err := r.db.QueryContext(
		ctx,
		"SELECT id, category, amount, spent, user_id FROM budgets WHERE user_id=$1 ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(
			&b.ID,
			&b.Category,
			&b.Amount,
			&b.Spent,
			&b.UserID,
		); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r PostgresRepository) GetUserBudgetByCategory(
	ctx context.Context,
	userID int,
	category string,
) (models.Budget, error) {
	row := r.db.QueryRowContext(
		ctx,
		"SELECT id, category, amount, spent, user_id FROM budgets WHERE user_id=$1 AND category=$2",
		userID, category,
	)
	var b models.Budget
	err := row.Scan(&b.ID, &b.Category, &b.Amount, &b.Spent, &b.UserID)
	if err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

func (r PostgresRepository) AddBudget(
	ctx context.Context,
	b models.Budget,
) (int, error) {
	var id int
	err := r.db.QueryRowContext(
		ctx,
		`INSERT INTO budgets (category, amount, spent, user_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		b.Category, b.Amount, b.Spent, b.UserID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r PostgresRepository) UpdateBudget(
	ctx context.Context,
	b models.Budget,
) error {
	_, err := r.db.ExecContext(
		ctx,
		"UPDATE budgets SET category=$1, amount=$2, spent=$3 WHERE id=$4",
		b.Category, b.Amount, b.Spent, b.ID,
	)
	return err
}

func (r PostgresRepository) DeleteBudget(
	ctx context.Context,
	id int,
) error {
	_, err := r.db.ExecContext(
		ctx,
		"DELETE FROM budgets WHERE id=$1",
		id,
	)
	return err
}
