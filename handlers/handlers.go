package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"PFTproject/models"
	"PFTproject/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc       service.Service
	jwtSecret string
}

func NewHandler(svc service.Service, jwtSecret string) Handler {
	return Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SigninResponse struct {
	Token    string `json:"token"`
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
}

type TransactionResponse struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	UserID      int             `json:"userId"`
}

type BudgetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Spent    decimal.Decimal `json:"spent"`
}

type BudgetResponse struct {
	ID       int             `json:"id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Spent    decimal.Decimal `json:"spent"`
	UserID   int             `json:"userId"`
}

type ErrorResponse struct {
	Errors string `json:"errors"`
}

func (h Handler) SigninHandler(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Неверный запрос")
		return
	}
	token, user, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, SigninResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Неверный запрос")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Неверные параметры запроса")
		return
	}
	if _, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Пользователь зарегистрирован"})
}

func (h Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	filter := service.TransactionFilter{Type: r.URL.Query().Get("type")}
	if from := r.URL.Query().Get("from"); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Неверный формат даты")
			return
		}
		filter.From = parsed
	}
	if to := r.URL.Query().Get("to"); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Неверный формат даты")
			return
		}
		filter.To = parsed
	}
	transactions, err := h.svc.ListTransactions(r.Context(), user.ID, filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	resp := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		resp = append(resp, toTransactionResponse(t))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h Handler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	input, ok := decodeTransactionInput(w, r)
	if !ok {
		return
	}
	created, err := h.svc.CreateTransaction(r.Context(), user.ID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toTransactionResponse(created))
}

func (h Handler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.svc.GetTransaction(r.Context(), user.ID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (h Handler) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	input, ok := decodeTransactionInput(w, r)
	if !ok {
		return
	}
	updated, err := h.svc.UpdateTransaction(r.Context(), user.ID, id, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (h Handler) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), user.ID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h Handler) ListBudgetsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	budgets, err := h.svc.ListBudgets(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	resp := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, toBudgetResponse(b))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h Handler) CreateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Неверный запрос")
		return
	}
	created, err := h.svc.CreateBudget(r.Context(), user.ID, service.BudgetInput{
		Category: req.Category,
		Amount:   req.Amount,
		Spent:    req.Spent,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toBudgetResponse(created))
}

func (h Handler) UpdateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Неверный запрос")
		return
	}
	updated, err := h.svc.UpdateBudget(r.Context(), user.ID, id, service.BudgetInput{
		Category: req.Category,
		Amount:   req.Amount,
		Spent:    req.Spent,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toBudgetResponse(updated))
}

func (h Handler) DeleteBudgetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Пользователь не найден в контексте")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBudget(r.Context(), user.ID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h Handler) JWTMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Отсутствует токен авторизации")
			return
		}

		const bearerPrefix = "Bearer "
		if len(authHeader) <= len(bearerPrefix) {
			respondWithError(w, http.StatusUnauthorized, "Неверный формат токена")
			return
		}

		tokenStr := authHeader[len(bearerPrefix):]
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			respondWithError(w, http.StatusUnauthorized, "Неверный токен")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Неверные данные токена")
			return
		}
		username, ok := claims["sub"].(string)
		if !ok || username == "" {
			respondWithError(w, http.StatusUnauthorized, "Неверный subject в токене")
			return
		}

		user, err := h.svc.ResolveUser(r.Context(), username)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Пользователь не найден")
			return
		}

		ctx := context.WithValue(r.Context(), "user", user)
		next(w, r.WithContext(ctx))
	}
}

func userFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value("user").(models.User)
	return user, ok
}

func decodeTransactionInput(w http.ResponseWriter, r *http.Request) (service.TransactionInput, bool) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Неверный запрос")
		return service.TransactionInput{}, false
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Неверный формат даты")
		return service.TransactionInput{}, false
	}
	return service.TransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Category:    req.Category,
		Type:        req.Type,
	}, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Неверный идентификатор")
		return 0, false
	}
	return id, true
}

func toTransactionResponse(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date.Format(dateLayout),
		Category:    t.Category,
		Type:        t.Type,
		UserID:      t.UserID,
	}
}

func toBudgetResponse(b models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:       b.ID,
		Category: b.Category,
		Amount:   b.Amount,
		Spent:    b.Spent,
		UserID:   b.UserID,
	}
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidTransactionType),
		errors.Is(err, service.ErrBudgetExists):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrBudgetNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Errors: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
