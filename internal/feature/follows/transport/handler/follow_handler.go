// Package handler はfollowsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"microblog_backend/internal/feature/follows/transport/http/dto"
	userentity "microblog_backend/internal/feature/users/domain/entity"
	userdto "microblog_backend/internal/feature/users/transport/http/dto"
	userusecase "microblog_backend/internal/feature/users/usecase"
	jwtmw "microblog_backend/internal/platform/jwt"
	"microblog_backend/internal/shared/pagination"
)

// FollowUsecase はフォローグラフ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type FollowUsecase interface {
	Follow(ctx context.Context, actorID uint, targetIDs []uint) error
	Unfollow(ctx context.Context, actorID uint, targetIDs []uint) error
	IsFollowing(ctx context.Context, actorID, candidateID uint) (bool, error)
	Followings(ctx context.Context, userID uint, page int) (pagination.Page[userentity.User], string, error)
	Followers(ctx context.Context, userID uint, page int) (pagination.Page[userentity.User], string, error)
}

// FollowHandler はフォローグラフ操作のHTTPリクエストを処理します。
type FollowHandler struct {
	follows FollowUsecase
}

// NewFollowHandler はFollowHandlerの新しいインスタンスを生成します。
func NewFollowHandler(follows FollowUsecase) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// Create はフォローAPIエンドポイントを処理します。認証必須です。
// 既にフォロー済みの対象は黙ってスキップされるため、二重フォローは
// エラーにも重複にもなりません。
func (h *FollowHandler) Create(c *gin.Context) {
	actorID, targets, ok := h.actorAndTargets(c)
	if !ok {
		return
	}

	if err := h.follows.Follow(c.Request.Context(), actorID, targets); err != nil {
		slog.Warn("follow failed", "actor_id", actorID, "targets", targets, "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "关注成功！"})
}

// Destroy はフォロー解除APIエンドポイントを処理します。
// 存在しないエッジの解除は何もしない成功として扱います。
func (h *FollowHandler) Destroy(c *gin.Context) {
	actorID, targets, ok := h.actorAndTargets(c)
	if !ok {
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), actorID, targets); err != nil {
		slog.Warn("unfollow failed", "actor_id", actorID, "targets", targets, "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "取消关注成功！"})
}

// Show はフォロー状態の確認APIエンドポイントを処理します。認証必須です。
func (h *FollowHandler) Show(c *gin.Context) {
	actorID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	targetID, ok := idParam(c)
	if !ok {
		return
	}

	following, err := h.follows.IsFollowing(c.Request.Context(), actorID, targetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// Followings はフォロー中一覧APIエンドポイントを処理します。
// 認証不要の公開読み取りで、30件ずつ返します。
func (h *FollowHandler) Followings(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	page, title, err := h.follows.Followings(c.Request.Context(), id, pageQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title": title,
		"users": pagination.Map(page, func(u userentity.User) userdto.UserItem {
			return userdto.UserItemFromEntity(&u)
		}),
	})
}

// Followers はフォロワー一覧APIエンドポイントを処理します。
func (h *FollowHandler) Followers(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	page, title, err := h.follows.Followers(c.Request.Context(), id, pageQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title": title,
		"users": pagination.Map(page, func(u userentity.User) userdto.UserItem {
			return userdto.UserItemFromEntity(&u)
		}),
	})
}

// actorAndTargets は認証済みユーザーと、:idパラメータおよび任意のボディから
// 対象ユーザーIDの集合（重複除去済み）を取り出します。
func (h *FollowHandler) actorAndTargets(c *gin.Context) (uint, []uint, bool) {
	actorID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, nil, false
	}
	targetID, ok := idParam(c)
	if !ok {
		return 0, nil, false
	}

	targets := []uint{targetID}
	var req dto.FollowReq
	if err := c.ShouldBindJSON(&req); err == nil {
		for _, id := range req.UserIDs {
			if !slices.Contains(targets, id) {
				targets = append(targets, id)
			}
		}
	} else if !errors.Is(err, io.EOF) {
		// ボディは任意だが、送るなら正しいJSONであること
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return 0, nil, false
	}

	return actorID, targets, true
}

// respondError はユースケースのエラーをHTTPステータスへ変換します。
func (h *FollowHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, userusecase.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
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
