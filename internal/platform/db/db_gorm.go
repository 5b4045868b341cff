// Package db opens the application database connection.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	authadapters "microblog_backend/internal/feature/auth/adapters"
	followentity "microblog_backend/internal/feature/follows/domain/entity"
	statusentity "microblog_backend/internal/feature/statuses/domain/entity"
	userentity "microblog_backend/internal/feature/users/domain/entity"
)

// OpenDB connects to MySQL using the DB_* environment variables, retrying
// for up to 60 seconds so the service survives a database that is still
// starting. With RUN_MIGRATIONS=true it also runs the schema migration.
func OpenDB() *gorm.DB {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		user, pass, host, port, name)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// users, statuses, followers, sessions
		if err := db.AutoMigrate(
			&userentity.User{},
			&statusentity.Status{},
			&followentity.Follow{},
			&authadapters.SessionModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
