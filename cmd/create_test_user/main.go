package main

import (
	"context"
	"errors"
	"log"
	"os"

	"habit_webapp/internal/db"
	"habit_webapp/internal/domain"
	"habit_webapp/internal/repository"
	"habit_webapp/internal/service"

	"github.com/jackc/pgx/v5"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	externalID := os.Getenv("TEST_EXTERNAL_ID")
	if externalID == "" {
		externalID = "test-account-1"
	}

	u, err := repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Fatalf("lookup user failed: %v", err)
		}
		u = &domain.User{
			ExternalID: externalID,
			Username:   "testuser",
			FirstName:  "Tester",
		}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	} else {
		log.Printf("user already exists id=%d\n", u.ID)
	}

	// initialize JWT and print token
	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
