package main

import (
	"context"
	"flag"
	"log"

	"PFTproject/config"

	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq"
)

func main() {
	command := flag.String("command", "up", "команда миграции (up|status|down)")
	dir := flag.String("dir", "migrations", "каталог с миграциями")
	flag.Parse()

	ctx := context.Background()

	cfg := config.LoadConfigOrPanic()

	db := config.InitDB(ctx, cfg)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Ошибка выбора диалекта: %v", err)
	}

	var err error
	switch *command {
	case "up":
		err = goose.UpContext(ctx, db, *dir)
	case "status":
		err = goose.StatusContext(ctx, db, *dir)
	case "down":
		err = goose.DownContext(ctx, db, *dir)
	default:
		log.Fatalf("Неизвестная команда: %s", *command)
	}
	if err != nil {
		log.Fatalf("Ошибка миграции: %v", err)
	}
	log.Printf("Миграция выполнена: %s", *command)
}
