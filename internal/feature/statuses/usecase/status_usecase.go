package usecase

import (
	"context"
	"fmt"

	"microblog_backend/internal/feature/statuses/domain/entity"
	"microblog_backend/internal/shared/pagination"
	"microblog_backend/internal/shared/validation"
)

// FeedPerPage はフィードの1ページあたりの件数です。
const FeedPerPage = 30

// StatusRepository は投稿エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type StatusRepository interface {
	// Create は新しい投稿をストレージに永続化します。
	Create(ctx context.Context, status *entity.Status) error

	// FindByID は指定されたIDに一致する投稿を取得します。
	// 投稿が存在しない場合、ErrStatusNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Status, error)

	// Delete は投稿を削除します。
	Delete(ctx context.Context, id uint) error

	// ListByUserID は1ユーザーの投稿を新しい順に1ページ分取得します。
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]entity.Status, error)

	// CountByUserID は1ユーザーの投稿の総数を返します。
	CountByUserID(ctx context.Context, userID uint) (int64, error)

	// ListByUserIDs は複数ユーザーの投稿を新しい順に、投稿者を含めて
	// 1クエリで取得します。フィード組み立て用です。
	ListByUserIDs(ctx context.Context, userIDs []uint, offset, limit int) ([]entity.Status, error)

	// CountByUserIDs は複数ユーザーの投稿の総数を返します。
	CountByUserIDs(ctx context.Context, userIDs []uint) (int64, error)
}

// FollowingLister はフィード対象の決定に必要なフォロー関係の読み取りを抽象化します。
type FollowingLister interface {
	// ListFollowingIDs は指定ユーザーがフォローしているユーザーIDを返します。
	ListFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// statusUsecase は投稿とフィードのビジネスロジックを実装します。
type statusUsecase struct {
	statuses   StatusRepository
	followings FollowingLister
}

// NewStatusUsecase はstatusUsecaseの新しいインスタンスを生成します。
func NewStatusUsecase(statuses StatusRepository, followings FollowingLister) *statusUsecase {
	return &statusUsecase{
		statuses:   statuses,
		followings: followings,
	}
}

// Post は認証済みユーザーの新しい投稿を作成します。
// 内容は必須かつ140文字（バイトではなく文字数）以内です。
// 検証に失敗した場合、*validation.Errorを返します。
func (u *statusUsecase) Post(ctx context.Context, actorID uint, content string) (*entity.Status, error) {
	ve := validation.NewError()
	if content == "" {
		ve.Add("content", "content is required")
	} else if n := len([]rune(content)); n > entity.MaxContentLength {
		ve.Add("content", fmt.Sprintf("content must be at most %d characters", entity.MaxContentLength))
	}
	if err := ve.ErrOrNil(); err != nil {
		return nil, err
	}

	status := &entity.Status{
		Content: content,
		UserID:  actorID,
	}
	if err := u.statuses.Create(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

// Delete は投稿を削除します。投稿が存在しない場合ErrStatusNotFound、
// 所有者以外による削除はErrForbiddenを返します。投稿に更新操作はありません。
func (u *statusUsecase) Delete(ctx context.Context, actorID, statusID uint) error {
	status, err := u.statuses.FindByID(ctx, statusID)
	if err != nil {
		return err
	}
	if status.UserID != actorID {
		return ErrForbidden
	}
	return u.statuses.Delete(ctx, statusID)
}

// Feed はフォロー中のユーザーと本人の投稿を新しい順に1ページ分返します。
// 対象集合は {userID} ∪ {フォロー中のID} で、取得は単一クエリです。
func (u *statusUsecase) Feed(ctx context.Context, userID uint, page int) (pagination.Page[entity.Status], error) {
	var empty pagination.Page[entity.Status]

	ids, err := u.followings.ListFollowingIDs(ctx, userID)
	if err != nil {
		return empty, err
	}
	ids = append(ids, userID)

	total, err := u.statuses.CountByUserIDs(ctx, ids)
	if err != nil {
		return empty, err
	}
	statuses, err := u.statuses.ListByUserIDs(ctx, ids, pagination.Offset(page, FeedPerPage), FeedPerPage)
	if err != nil {
		return empty, err
	}

	return pagination.New(statuses, page, FeedPerPage, total), nil
}
