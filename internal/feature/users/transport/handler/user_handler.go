// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authusecase "microblog_backend/internal/feature/auth/usecase"
	statusentity "microblog_backend/internal/feature/statuses/domain/entity"
	statusdto "microblog_backend/internal/feature/statuses/transport/http/dto"
	"microblog_backend/internal/feature/users/domain/entity"
	"microblog_backend/internal/feature/users/transport/http/dto"
	"microblog_backend/internal/feature/users/usecase"
	jwtmw "microblog_backend/internal/platform/jwt"
	"microblog_backend/internal/shared/pagination"
	"microblog_backend/internal/shared/validation"
)

// UserUsecase はユーザー管理操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	ConfirmEmail(ctx context.Context, token string) (*entity.User, error)
	Profile(ctx context.Context, id uint, page int) (*entity.User, pagination.Page[statusentity.Status], error)
	List(ctx context.Context, page int) (pagination.Page[entity.User], error)
	UpdateProfile(ctx context.Context, actorID, targetID uint, in usecase.UpdateProfileInput) (*entity.User, error)
	Delete(ctx context.Context, actorID, targetID uint) error
}

// SessionManager はメール確認直後の自動ログインとアカウント削除時の
// セッション失効に必要な認証操作を定義します。authユースケースが実装します。
type SessionManager interface {
	IssueFor(ctx context.Context, user *entity.User, client authusecase.ClientInfo) (authusecase.TokenPair, error)
	RevokeAll(ctx context.Context, userID uint) error
}

// UserHandler はユーザー管理操作のHTTPリクエストを処理します。
type UserHandler struct {
	users    UserUsecase
	sessions SessionManager
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserHandler(users UserUsecase, sessions SessionManager) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 検証エラー時はフィールドごとのメッセージ付きで422を返却
// - 成功時は201を返却（ログイン状態にはしない。有効化メールを送信済み）
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), usecase.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		slog.Warn("register failed", "name", req.Name, "error", err, "remote_addr", c.ClientIP())
		h.respondError(c, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "name", user.Name, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, gin.H{
		"message": "验证邮件已发送到你的注册邮箱上，请注意查收。",
		"user":    dto.UserItemFromEntity(user),
	})
}

// ConfirmEmail はメール確認APIエンドポイントを処理します。
// トークンが一致したユーザーを有効化し、そのままログイン状態を確立します。
// 消費済みトークンでの再確認は404になります。
func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	token := c.Param("token")

	user, err := h.users.ConfirmEmail(c.Request.Context(), token)
	if err != nil {
		slog.Warn("email confirmation failed", "error", err, "remote_addr", c.ClientIP())
		h.respondError(c, err)
		return
	}

	pair, err := h.sessions.IssueFor(c.Request.Context(), user, authusecase.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		slog.Error("session issue failed after confirmation", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	slog.Info("user activated", "user_id", user.ID, "name", user.Name)
	c.JSON(http.StatusOK, gin.H{
		"message":       "恭喜你，激活成功！",
		"user":          dto.UserItemFromEntity(user),
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Show はプロフィール表示APIエンドポイントを処理します。認証不要です。
// ユーザーと、そのユーザーの投稿（新しい順・10件ずつ）を返します。
func (h *UserHandler) Show(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, statuses, err := h.users.Profile(c.Request.Context(), id, pageQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     dto.UserItemFromEntity(user),
		"statuses": pagination.Map(statuses, statusdto.StatusItemFromEntity),
	})
}

// Index はユーザー一覧APIエンドポイントを処理します。認証不要、10件ずつです。
func (h *UserHandler) Index(c *gin.Context) {
	page, err := h.users.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(page, func(u entity.User) dto.UserItem {
		return dto.UserItemFromEntity(&u)
	}))
}

// Update はプロフィール更新APIエンドポイントを処理します。
// 本人のみが更新でき、他人のプロフィールには403を返します。
func (h *UserHandler) Update(c *gin.Context) {
	actorID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	targetID, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), actorID, targetID, usecase.UpdateProfileInput{
		Name:                 req.Name,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		slog.Warn("profile update failed", "actor_id", actorID, "target_id", targetID, "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "个人资料更新成功！",
		"user":    dto.UserItemFromEntity(user),
	})
}

// Destroy はアカウント削除APIエンドポイントを処理します。
// 本人のみが削除でき、削除は投稿とフォロー関係に連鎖し、全セッションを失効させます。
func (h *UserHandler) Destroy(c *gin.Context) {
	actorID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	targetID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), actorID, targetID); err != nil {
		slog.Warn("user delete failed", "actor_id", actorID, "target_id", targetID, "error", err)
		h.respondError(c, err)
		return
	}

	if err := h.sessions.RevokeAll(c.Request.Context(), targetID); err != nil {
		// アカウントは既に消えている。セッションはTTLで消えるため警告に留める。
		slog.Warn("session revocation failed after delete", "user_id", targetID, "error", err)
	}

	slog.Info("user deleted", "user_id", targetID)
	c.JSON(http.StatusOK, gin.H{"message": "成功删除用户！"})
}

// respondError はユースケースのエラーをHTTPステータスへ変換します。
func (h *UserHandler) respondError(c *gin.Context, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve.Fields})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, usecase.ErrUserNotFound), errors.Is(err, usecase.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// idParam は:idパスパラメータを解析します。不正な値は404として扱います。
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

// pageQuery は?pageクエリパラメータを解析します。省略時は1ページ目です。
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}
