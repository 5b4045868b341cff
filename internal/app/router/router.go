// Package router defines the HTTP route table.
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "microblog_backend/internal/feature/auth/transport/handler"
	followhandler "microblog_backend/internal/feature/follows/transport/handler"
	statushandler "microblog_backend/internal/feature/statuses/transport/handler"
	userhandler "microblog_backend/internal/feature/users/transport/handler"
	"microblog_backend/internal/platform/http/handler"
	jwtmw "microblog_backend/internal/platform/jwt"
)

// NewRouter wires every endpoint to its handler.
func NewRouter(users *userhandler.UserHandler, auth *authhandler.AuthHandler,
	statuses *statushandler.StatusHandler, follows *followhandler.FollowHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録（有効化メールを送信。ログイン状態にはしない）
	r.POST("/users", users.Register)
	// メール確認。有効化と同時にログイン状態を確立する
	// （/users/:id と静的セグメントが衝突するため /users 配下には置けない）
	r.GET("/signup/confirm/:token", users.ConfirmEmail)
	// ログイン／トークン更新／ログアウト
	r.POST("/login", auth.Login)
	r.POST("/refresh", auth.Refresh)
	r.POST("/logout", auth.Logout)
	// 公開読み取り
	r.GET("/users", users.Index)
	r.GET("/users/:id", users.Show)
	r.GET("/users/:id/followings", follows.Followings)
	r.GET("/users/:id/followers", follows.Followers)

	// 認証必須のルート
	authed := r.Group("/")
	authed.Use(jwtmw.AuthRequired())
	{
		// プロフィール更新とアカウント削除は本人のみ（ユースケース側で検査）
		authed.PATCH("/users/:id", users.Update)
		authed.DELETE("/users/:id", users.Destroy)
		// 投稿の作成と削除
		authed.POST("/statuses", statuses.Create)
		authed.DELETE("/statuses/:id", statuses.Destroy)
		// フィード
		authed.GET("/feed", statuses.Feed)
		// フォローグラフ
		authed.POST("/users/:id/follow", follows.Create)
		authed.DELETE("/users/:id/follow", follows.Destroy)
		authed.GET("/users/:id/follow", follows.Show)
	}

	return r
}
