package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"microblog_backend/internal/feature/users/domain/entity"
	statusentity "microblog_backend/internal/feature/statuses/domain/entity"
	"microblog_backend/internal/shared/pagination"
	"microblog_backend/internal/shared/validation"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6

	// maxNameLength は表示名の最大文字数を定義します。
	maxNameLength = 50

	// maxEmailLength はメールアドレスの最大文字数を定義します。
	maxEmailLength = 255

	// UsersPerPage はユーザー一覧とプロフィールの1ページあたりの件数です。
	UsersPerPage = 10

	// StatusesPerPage はプロフィールに表示する投稿の1ページあたりの件数です。
	StatusesPerPage = 10
)

// emailPattern は大まかなメールアドレス形式チェックです。厳密なRFC検証はしません。
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// name/emailの一意制約に違反した場合、ErrNameAlreadyExists / ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByName は指定された表示名に一致するユーザーを取得します。
	FindByName(ctx context.Context, name string) (*entity.User, error)

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByActivationToken は指定された有効化トークンを保持するユーザーを取得します。
	// 該当ユーザーがいない場合、ErrTokenNotFoundを返します。
	FindByActivationToken(ctx context.Context, token string) (*entity.User, error)

	// Update はユーザーの全フィールド（NULLへ戻すトークン含む）を保存します。
	Update(ctx context.Context, user *entity.User) error

	// Delete はユーザーと、そのユーザーが所有する投稿・フォロー関係を削除します。
	Delete(ctx context.Context, id uint) error

	// List は作成順でユーザーを1ページ分取得します。
	List(ctx context.Context, offset, limit int) ([]entity.User, error)

	// Count は登録ユーザーの総数を返します。
	Count(ctx context.Context) (int64, error)
}

// StatusLister はプロフィール表示に必要な投稿の読み取りを抽象化します。
type StatusLister interface {
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]statusentity.Status, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

// Mailer は有効化メールの送信を抽象化します。
// 送信は登録処理の成否に影響しないベストエフォートです。
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// RegisterInput は登録操作の明示的な入力構造体です。
// フィールドのホワイトリストそのものであり、生のフィールドマップは受け付けません。
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// UpdateProfileInput はプロフィール更新の入力構造体です。
// Passwordが空の場合、既存のパスワードハッシュは変更されません。
type UpdateProfileInput struct {
	Name                 string
	Password             string
	PasswordConfirmation string
}

// userUsecase はユーザー管理のビジネスロジックを実装します。
type userUsecase struct {
	users    UserRepository
	statuses StatusLister
	mailer   Mailer
	baseURL  string
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
// baseURLは有効化メール内の確認リンクの生成に使用します。
func NewUserUsecase(users UserRepository, statuses StatusLister, mailer Mailer, baseURL string) *userUsecase {
	return &userUsecase{
		users:    users,
		statuses: statuses,
		mailer:   mailer,
		baseURL:  baseURL,
	}
}

// Register は新規ユーザーを未有効化状態で登録し、有効化メールを送信します。
// 検証に失敗した場合、フィールドごとのメッセージを持つ*validation.Errorを返します。
// 登録が成功してもログイン状態にはしません。
func (u *userUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	ve := validation.NewError()

	if in.Name == "" {
		ve.Add("name", "name is required")
	} else if len([]rune(in.Name)) > maxNameLength {
		ve.Add("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	} else if _, err := u.users.FindByName(ctx, in.Name); err == nil {
		ve.Add("name", "name has already been taken")
	}

	if in.Email == "" {
		ve.Add("email", "email is required")
	} else if len(in.Email) > maxEmailLength {
		ve.Add("email", fmt.Sprintf("email must be at most %d characters", maxEmailLength))
	} else if !emailPattern.MatchString(in.Email) {
		ve.Add("email", "email is not a valid email address")
	} else if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		ve.Add("email", "email has already been taken")
	}

	validatePassword(ve, in.Password, in.PasswordConfirmation)

	if err := ve.ErrOrNil(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(in.Name, in.Email, string(hashed))
	if err := u.users.Create(ctx, user); err != nil {
		// 事前チェックと挿入の間に同名/同メールが滑り込んだ競合も、
		// 呼び出し元には通常の検証エラーと同じ形で返す。
		if conflictErr := asConflictValidation(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, err
	}

	// 有効化メールはベストエフォート。失敗しても登録自体は成立する。
	go u.sendActivationEmail(user)

	return user, nil
}

// ConfirmEmail は有効化トークンを消費してユーザーを有効化します。
// トークンは完全一致・一回限りで、該当ユーザーがいない場合ErrTokenNotFoundを返します。
func (u *userUsecase) ConfirmEmail(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	user, err := u.users.FindByActivationToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user.Activate()
	if err := u.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	return user, nil
}

// Profile はユーザーと、そのユーザーの投稿を新しい順に1ページ分返します。
// 認証不要の公開読み取りです。
func (u *userUsecase) Profile(ctx context.Context, id uint, page int) (*entity.User, pagination.Page[statusentity.Status], error) {
	var empty pagination.Page[statusentity.Status]

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, empty, err
	}

	total, err := u.statuses.CountByUserID(ctx, id)
	if err != nil {
		return nil, empty, err
	}
	statuses, err := u.statuses.ListByUserID(ctx, id, pagination.Offset(page, StatusesPerPage), StatusesPerPage)
	if err != nil {
		return nil, empty, err
	}

	return user, pagination.New(statuses, page, StatusesPerPage, total), nil
}

// List は登録ユーザーの一覧を1ページ分返します。
func (u *userUsecase) List(ctx context.Context, page int) (pagination.Page[entity.User], error) {
	var empty pagination.Page[entity.User]

	total, err := u.users.Count(ctx)
	if err != nil {
		return empty, err
	}
	users, err := u.users.List(ctx, pagination.Offset(page, UsersPerPage), UsersPerPage)
	if err != nil {
		return empty, err
	}

	return pagination.New(users, page, UsersPerPage, total), nil
}

// UpdateProfile はプロフィール（表示名と任意でパスワード）を更新します。
// 本人以外による更新はErrForbiddenで拒否します。
// パスワードが指定されなかった場合、既存のハッシュは変更されません。
func (u *userUsecase) UpdateProfile(ctx context.Context, actorID, targetID uint, in UpdateProfileInput) (*entity.User, error) {
	if actorID != targetID {
		return nil, ErrForbidden
	}

	ve := validation.NewError()
	if in.Name == "" {
		ve.Add("name", "name is required")
	} else if len([]rune(in.Name)) > maxNameLength {
		ve.Add("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	if in.Password != "" {
		validatePassword(ve, in.Password, in.PasswordConfirmation)
	}
	if err := ve.ErrOrNil(); err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := u.users.Update(ctx, user); err != nil {
		if conflictErr := asConflictValidation(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, err
	}

	return user, nil
}

// Delete はアカウントを削除します。本人以外による削除はErrForbiddenで拒否します。
// 削除はそのユーザーの投稿とフォロー関係（両方向）に連鎖します。
func (u *userUsecase) Delete(ctx context.Context, actorID, targetID uint) error {
	if actorID != targetID {
		return ErrForbidden
	}

	if _, err := u.users.FindByID(ctx, targetID); err != nil {
		return err
	}

	return u.users.Delete(ctx, targetID)
}

// validatePassword はパスワードの長さと確認入力の一致を検証します。
func validatePassword(ve *validation.Error, password, confirmation string) {
	if password == "" {
		ve.Add("password", "password is required")
		return
	}
	if len(password) < minPasswordLength {
		ve.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if password != confirmation {
		ve.Add("password", "password confirmation does not match")
	}
}

// asConflictValidation はストア由来の一意制約違反を検証エラーの形に変換します。
func asConflictValidation(err error) error {
	ve := validation.NewError()
	switch {
	case errors.Is(err, ErrNameAlreadyExists):
		ve.Add("name", "name has already been taken")
	case errors.Is(err, ErrEmailAlreadyExists):
		ve.Add("email", "email has already been taken")
	}
	return ve.ErrOrNil()
}

// sendActivationEmail は確認リンク付きの有効化メールを送信します。
// リクエスト完了後も走るためcontextは引き回しません。
func (u *userUsecase) sendActivationEmail(user *entity.User) {
	if user.ActivationToken == nil {
		return
	}
	link := fmt.Sprintf("%s/signup/confirm/%s", u.baseURL, *user.ActivationToken)
	body := fmt.Sprintf(
		"<p>%s 您好！</p><p>感谢您注册微博应用！请点击下面的链接完成注册：</p><p><a href=%q>%s</a></p>",
		user.Name, link, link,
	)
	if err := u.mailer.Send(user.Email, "感谢注册微博应用！请确认你的邮箱。", body); err != nil {
		slog.Warn("activation email failed", "email", user.Email, "error", err)
	}
}
