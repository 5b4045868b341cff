// Package usecase はfollowsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"

	"microblog_backend/internal/feature/follows/domain/entity"
	userentity "microblog_backend/internal/feature/users/domain/entity"
	"microblog_backend/internal/shared/pagination"
)

// FollowListPerPage はフォロー/フォロワー一覧の1ページあたりの件数です。
const FollowListPerPage = 30

// FollowRepository はフォロー関係の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type FollowRepository interface {
	// CreateIgnoreDuplicates はエッジを挿入します。既存の(follower, followed)
	// ペアは黙ってスキップされ、重複行もエラーも発生しません。
	CreateIgnoreDuplicates(ctx context.Context, edges []entity.Follow) error

	// Delete は一致するエッジを削除します。存在しないエッジは何もしません。
	Delete(ctx context.Context, followerID uint, followedIDs []uint) error

	// Exists は指定の有向エッジが存在するかを返します。
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)

	// ListFollowingIDs は指定ユーザーがフォローしているユーザーIDを返します。
	ListFollowingIDs(ctx context.Context, userID uint) ([]uint, error)

	// ListFollowings / CountFollowings は指定ユーザーがフォローしているユーザーを取得します。
	ListFollowings(ctx context.Context, userID uint, offset, limit int) ([]userentity.User, error)
	CountFollowings(ctx context.Context, userID uint) (int64, error)

	// ListFollowers / CountFollowers は指定ユーザーをフォローしているユーザーを取得します。
	ListFollowers(ctx context.Context, userID uint, offset, limit int) ([]userentity.User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
}

// UserFinder はフォロー対象の存在確認に必要なユーザーの読み取りを抽象化します。
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
}

// followUsecase はフォローグラフのビジネスロジックを実装します。
type followUsecase struct {
	follows FollowRepository
	users   UserFinder
}

// NewFollowUsecase はfollowUsecaseの新しいインスタンスを生成します。
func NewFollowUsecase(follows FollowRepository, users UserFinder) *followUsecase {
	return &followUsecase{
		follows: follows,
		users:   users,
	}
}

// Follow は対象ユーザー（1人以上）へのフォローエッジを作成します。
// 既にフォロー済みの対象は黙ってスキップされます（冪等）。
// 自分自身へのフォローは禁止していません。対象ユーザーが存在しない場合は
// UserFinderのエラーをそのまま返します。
func (u *followUsecase) Follow(ctx context.Context, actorID uint, targetIDs []uint) error {
	edges := make([]entity.Follow, 0, len(targetIDs))
	for _, id := range targetIDs {
		if _, err := u.users.FindByID(ctx, id); err != nil {
			return err
		}
		edges = append(edges, entity.Follow{FollowerID: actorID, FollowedID: id})
	}
	if len(edges) == 0 {
		return nil
	}
	return u.follows.CreateIgnoreDuplicates(ctx, edges)
}

// Unfollow は対象ユーザー（1人以上）へのフォローエッジを削除します。
// 存在しないエッジは何もせず、エラーにもなりません（冪等）。
func (u *followUsecase) Unfollow(ctx context.Context, actorID uint, targetIDs []uint) error {
	if len(targetIDs) == 0 {
		return nil
	}
	return u.follows.Delete(ctx, actorID, targetIDs)
}

// IsFollowing はactorがcandidateをフォローしているかを返します。純粋な読み取りです。
func (u *followUsecase) IsFollowing(ctx context.Context, actorID, candidateID uint) (bool, error) {
	return u.follows.Exists(ctx, actorID, candidateID)
}

// Followings は指定ユーザーがフォローしているユーザーの一覧と表示タイトルを返します。
// 認証不要の公開読み取りです。
func (u *followUsecase) Followings(ctx context.Context, userID uint, page int) (pagination.Page[userentity.User], string, error) {
	var empty pagination.Page[userentity.User]

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return empty, "", err
	}

	total, err := u.follows.CountFollowings(ctx, userID)
	if err != nil {
		return empty, "", err
	}
	users, err := u.follows.ListFollowings(ctx, userID, pagination.Offset(page, FollowListPerPage), FollowListPerPage)
	if err != nil {
		return empty, "", err
	}

	return pagination.New(users, page, FollowListPerPage, total), user.Name + "关注的人", nil
}

// Followers は指定ユーザーをフォローしているユーザーの一覧と表示タイトルを返します。
func (u *followUsecase) Followers(ctx context.Context, userID uint, page int) (pagination.Page[userentity.User], string, error) {
	var empty pagination.Page[userentity.User]

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return empty, "", err
	}

	total, err := u.follows.CountFollowers(ctx, userID)
	if err != nil {
		return empty, "", err
	}
	users, err := u.follows.ListFollowers(ctx, userID, pagination.Offset(page, FollowListPerPage), FollowListPerPage)
	if err != nil {
		return empty, "", err
	}

	return pagination.New(users, page, FollowListPerPage, total), user.Name + "的粉丝", nil
}
