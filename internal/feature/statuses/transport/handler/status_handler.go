// Package handler はstatusesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"microblog_backend/internal/feature/statuses/domain/entity"
	"microblog_backend/internal/feature/statuses/transport/http/dto"
	"microblog_backend/internal/feature/statuses/usecase"
	jwtmw "microblog_backend/internal/platform/jwt"
	"microblog_backend/internal/shared/pagination"
	"microblog_backend/internal/shared/validation"
)

// StatusUsecase は投稿とフィードのユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type StatusUsecase interface {
	Post(ctx context.Context, actorID uint, content string) (*entity.Status, error)
	Delete(ctx context.Context, actorID, statusID uint) error
	Feed(ctx context.Context, userID uint, page int) (pagination.Page[entity.Status], error)
}

// StatusHandler は投稿操作のHTTPリクエストを処理します。
type StatusHandler struct {
	statuses StatusUsecase
}

// NewStatusHandler はStatusHandlerの新しいインスタンスを生成します。
func NewStatusHandler(statuses StatusUsecase) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

// Create は投稿作成APIエンドポイントを処理します。認証必須です。
// - 内容が空または140文字を超える場合は422を返却
// - 成功時は201を返却
func (h *StatusHandler) Create(c *gin.Context) {
	actorID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req dto.CreateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	status, err := h.statuses.Post(c.Request.Context(), actorID, req.Content)
	if err != nil {
		slog.Warn("status post failed", "user_id", actorID, "error", err)
		h.respondError(c, err)
		return
	}

	slog.Info("status posted", "status_id", status.ID, "user_id", actorID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "发布成功！",
		"status":  dto.StatusItemFromEntity(*status),
	})
}

// Destroy は投稿削除APIエンドポイントを処理します。
// 所有者のみが削除でき、他人の投稿には403を返します。
func (h *StatusHandler) Destroy(c *gin.Context) {
	actorID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	statusID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := h.statuses.Delete(c.Request.Context(), actorID, uint(statusID)); err != nil {
		slog.Warn("status delete failed", "status_id", statusID, "user_id", actorID, "error", err)
		h.respondError(c, err)
		return
	}

	slog.Info("status deleted", "status_id", statusID, "user_id", actorID)
	c.JSON(http.StatusOK, gin.H{"message": "微博已被成功删除！"})
}

// Feed はフィードAPIエンドポイントを処理します。認証必須です。
// フォロー中のユーザーと本人の投稿を新しい順に、投稿者付きで返します。
func (h *StatusHandler) Feed(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	feed, err := h.statuses.Feed(c.Request.Context(), userID, page)
	if err != nil {
		slog.Error("feed assembly failed", "user_id", userID, "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(feed, dto.FeedItemFromEntity))
}

// respondError はユースケースのエラーをHTTPステータスへ変換します。
func (h *StatusHandler) respondError(c *gin.Context, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve.Fields})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, usecase.ErrStatusNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
