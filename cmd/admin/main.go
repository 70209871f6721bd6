// Command admin provisions admin accounts for the reservation service.
//
//	go run ./cmd/admin -username manager -password '...'
//
// It reads the server's DB_* settings and BCRYPT_COST.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/config"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/database"
	"github.com/TeamCluster/Nareum-Portal-Schedule/internal/repository"
)

func main() {
	username := flag.String("username", "", "admin login name")
	password := flag.String("password", "", "admin password (or ADMIN_PASSWORD)")
	migrate := flag.Bool("migrate", false, "apply schema migrations first")
	flag.Parse()

	_ = godotenv.Load()
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *username == "" || len(*password) < 8 {
		log.Fatal("username and a password of at least 8 characters are required")
	}

	db, err := database.Open(database.Options{
		User: os.Getenv("DB_USER"),
		Pass: os.Getenv("DB_PASS"),
		Host: os.Getenv("DB_HOST"),
		Port: os.Getenv("DB_PORT"),
		Name: os.Getenv("DB_NAME"),
	})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	id, err := repository.NewAdminRepo(db).Create(ctx, *username, *password, config.BcryptCost())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			log.Fatalf("admin %q already exists", *username)
		}
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %q (id=%d)", *username, id)
}
