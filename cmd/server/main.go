package main

import (
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"microblog_backend/internal/app/di"
	"microblog_backend/internal/app/router"
	authhandler "microblog_backend/internal/feature/auth/transport/handler"
	authusecase "microblog_backend/internal/feature/auth/usecase"
	followadapters "microblog_backend/internal/feature/follows/adapters"
	followhandler "microblog_backend/internal/feature/follows/transport/handler"
	followusecase "microblog_backend/internal/feature/follows/usecase"
	statusadapters "microblog_backend/internal/feature/statuses/adapters"
	statushandler "microblog_backend/internal/feature/statuses/transport/handler"
	statususecase "microblog_backend/internal/feature/statuses/usecase"
	useradapters "microblog_backend/internal/feature/users/adapters"
	userhandler "microblog_backend/internal/feature/users/transport/handler"
	userusecase "microblog_backend/internal/feature/users/usecase"
	"microblog_backend/internal/platform/cache"
	infradb "microblog_backend/internal/platform/db"
	jwtmw "microblog_backend/internal/platform/jwt"
	infraredis "microblog_backend/internal/platform/redis"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := useradapters.NewUserMySQL(db)
	statusRepo := statusadapters.NewStatusMySQL(db)
	followRepo := followadapters.NewFollowMySQL(db)
	sessionRepo := di.NewSessionRepository(rdb, db)

	// プロフィール読み取りはRedisキャッシュでラップ
	cachedUserRepo := cache.NewCachingUserRepository(rdb, 5*time.Minute, userRepo, "users")

	// Mailer（SMTP未設定ならログ出力のみ）
	mailer := di.NewMailer()

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Usecase
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 15*time.Minute)
	userUC := userusecase.NewUserUsecase(cachedUserRepo, statusRepo, mailer, baseURL)
	authUC := authusecase.NewAuthUsecase(cachedUserRepo, sessionRepo, jwtGen)
	statusUC := statususecase.NewStatusUsecase(statusRepo, followRepo)
	followUC := followusecase.NewFollowUsecase(followRepo, cachedUserRepo)

	// Handler
	userH := userhandler.NewUserHandler(userUC, authUC)
	authH := authhandler.NewAuthHandler(authUC)
	statusH := statushandler.NewStatusHandler(statusUC)
	followH := followhandler.NewFollowHandler(followUC)

	// ルータ生成
	router := router.NewRouter(userH, authH, statusH, followH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
