package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"PFTproject/config"
	"PFTproject/handlers"
	"PFTproject/repository"
	"PFTproject/service"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfigOrPanic()

	db := config.InitDB(ctx, cfg)
	defer func() { _ = db.Close() }()

	repoImpl := repository.NewPostgresRepository(db)

	svc := service.NewService(repoImpl, cfg.JWTSecret, cfg.TokenTTL)

	h := handlers.NewHandler(svc, cfg.JWTSecret)

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/signin", h.SigninHandler).Methods("POST")
	r.HandleFunc("/api/auth/signup", h.SignupHandler).Methods("POST")
	r.HandleFunc("/api/transactions", h.JWTMiddleware(h.ListTransactionsHandler)).Methods("GET")
	r.HandleFunc("/api/transactions", h.JWTMiddleware(h.CreateTransactionHandler)).Methods("POST")
	r.HandleFunc("/api/transactions/{id}", h.JWTMiddleware(h.GetTransactionHandler)).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", h.JWTMiddleware(h.UpdateTransactionHandler)).Methods("PUT")
	r.HandleFunc("/api/transactions/{id}", h.JWTMiddleware(h.DeleteTransactionHandler)).Methods("DELETE")
	r.HandleFunc("/api/budgets", h.JWTMiddleware(h.ListBudgetsHandler)).Methods("GET")
	r.HandleFunc("/api/budgets", h.JWTMiddleware(h.CreateBudgetHandler)).Methods("POST")
	r.HandleFunc("/api/budgets/{id}", h.JWTMiddleware(h.UpdateBudgetHandler)).Methods("PUT")
	r.HandleFunc("/api/budgets/{id}", h.JWTMiddleware(h.DeleteBudgetHandler)).Methods("DELETE")

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("Добро пожаловать в Finance Tracker API")); err != nil {
			log.Printf("Ошибка при записи ответа: %v", err)
		}
	}).Methods("GET")

	srv := http.Server{
		Handler:      r,
		Addr:         ":" + cfg.ServerPort,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Printf("Сервер запущен на порту %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil {
		_ = db.Close()
		log.Fatal(err)
	}
}
