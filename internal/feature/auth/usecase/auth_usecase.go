// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"microblog_backend/internal/feature/auth/domain/entity"
	userentity "microblog_backend/internal/feature/users/domain/entity"
)

const (
	// refreshTokenTTL はリフレッシュトークンの有効期間です。
	refreshTokenTTL = 30 * 24 * time.Hour

	// maxSessionsPerUser は1ユーザーが同時に保持できるセッション数の上限です。
	// 上限に達した場合、最も古いセッションが削除されます。
	maxSessionsPerUser = 5
)

// UserRepository は認証に必要なユーザーの読み取りを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*userentity.User, error)
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, name string) (string, error)
}

// TokenPair はログイン成功時に発行されるアクセストークンと
// リフレッシュトークンの組です。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ClientInfo はセッションに記録するクライアントのメタデータです。
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
	}
}

// Login はユーザーを認証し、成功時にトークンペアを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// 未有効化のユーザーはErrNotActivatedで拒否します。
func (u *authUsecase) Login(ctx context.Context, email, password string, client ClientInfo) (TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	// メール確認が済んでいないアカウントはログイン不可
	if !user.Activated {
		return TokenPair{}, ErrNotActivated
	}

	return u.IssueFor(ctx, user, client)
}

// IssueFor は指定されたユーザーのトークンペアを発行しセッションを確立します。
// ログインとメール確認直後の自動ログインの双方から使用されます。
func (u *authUsecase) IssueFor(ctx context.Context, user *userentity.User, client ClientInfo) (TokenPair, error) {
	access, err := u.jwtGenerator.GenerateToken(user.ID, user.Name)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate token: %w", err)
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}

	// セッション数が上限に達していたら最も古いものを追い出す
	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if count >= maxSessionsPerUser {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return TokenPair{}, err
		}
	}

	now := time.Now()
	session := &entity.Session{
		ID:        refresh,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return TokenPair{}, fmt.Errorf("failed to create session: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh はリフレッシュトークンを検証し、ローテーションして新しい
// トークンペアを返します。使用済みトークンは失効します。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (TokenPair, error) {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if !session.IsValid() {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	// ローテーション: 旧トークンを失効させてから新しいペアを発行する
	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return TokenPair{}, err
	}

	return u.IssueFor(ctx, user, client)
}

// Logout はリフレッシュトークンを失効させます。
// 既に無効なトークンでもエラーにはしません。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && err != ErrSessionNotFound {
		return err
	}
	return nil
}

// RevokeAll は指定ユーザーの全セッションを失効させます。
// アカウント削除時に使用されます。
func (u *authUsecase) RevokeAll(ctx context.Context, userID uint) error {
	return u.sessions.RevokeAllByUserID(ctx, userID)
}

// newRefreshToken は暗号学的に安全な64文字の16進トークンを生成します。
func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
