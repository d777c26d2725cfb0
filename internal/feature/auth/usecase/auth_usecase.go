package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/guilletomac/CS50-finance/internal/feature/auth/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
)

const (
	// maxPasswordBytes はbcryptが受け付ける最大バイト数です。
	maxPasswordBytes = 72

	// sessionIDBytes はセッションIDの乱数バイト数です（16進で64文字）。
	sessionIDBytes = 32

	// dummyHash はユーザーが存在しない場合の比較用ハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// ユーザー名が既に使われている場合はErrUsernameTakenを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername はユーザー名に一致するユーザーを取得します。
	// 存在しない場合はErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// TokenSigner はセッションIDを署名付きトークンに変換し、検証します。
type TokenSigner interface {
	Sign(sessionID string, userID uint, expiresAt time.Time) (string, error)
	Parse(token string) (sessionID string, err error)
}

// ClientInfo はセッションに記録する接続元の情報です。
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// Options はauthUsecaseの設定値です。
type Options struct {
	InitialCash decimal.Decimal
	SessionTTL  time.Duration
	MaxSessions int
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	signer   TokenSigner
	opts     Options
	now      func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, signer TokenSigner, opts Options) *authUsecase {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &authUsecase{
		users:    users,
		sessions: sessions,
		signer:   signer,
		opts:     opts,
		now:      time.Now,
	}
}

// Register はユーザーを登録し、そのままログインさせてセッショントークンを返します。
func (u *authUsecase) Register(ctx context.Context, username, password, confirmation string, client ClientInfo) (string, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return "", ErrMissingUsername
	case password == "":
		return "", ErrMissingPassword
	case confirmation == "":
		return "", ErrMissingConfirmation
	case password != confirmation:
		return "", ErrPasswordMismatch
	case len(password) > maxPasswordBytes:
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Username: username, Hash: string(hashed), Cash: u.opts.InitialCash}
	if err := u.users.Create(ctx, user); err != nil {
		return "", err
	}

	logger.FromContext(ctx).WithField("user_id", user.ID).Info("user registered")
	return u.startSession(ctx, user.ID, client)
}

// Authenticate はユーザー名とパスワードを検証し、ユーザーIDを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Authenticate(ctx context.Context, username, password string) (uint, error) {
	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return 0, fmt.Errorf("find user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Hash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}

// Login は認証に成功した場合に新しいセッションを作成し、署名済みトークンを返します。
func (u *authUsecase) Login(ctx context.Context, username, password string, client ClientInfo) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", ErrLoginMissingUser
	}
	if password == "" {
		return "", ErrLoginMissingPass
	}

	userID, err := u.Authenticate(ctx, username, password)
	if err != nil {
		logger.FromContext(ctx).WithError(err).WithField("remote_addr", client.IPAddress).Warn("login failed")
		return "", err
	}
	return u.startSession(ctx, userID, client)
}

// ResolveSession はトークンが指す有効なセッションのユーザーIDを返します。
func (u *authUsecase) ResolveSession(ctx context.Context, token string) (uint, error) {
	sessionID, err := u.signer.Parse(token)
	if err != nil {
		return 0, err
	}
	s, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if s.IsRevoked() {
		return 0, ErrSessionRevoked
	}
	if s.IsExpired() {
		return 0, ErrSessionExpired
	}
	return s.UserID, nil
}

// Logout はトークンが指すセッションを失効させます。既に無いセッションはエラーにしません。
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	sessionID, err := u.signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// startSession はセッション数の上限を守りつつ新しいセッションを作成します。
func (u *authUsecase) startSession(ctx context.Context, userID uint, client ClientInfo) (string, error) {
	if u.opts.MaxSessions > 0 {
		count, err := u.sessions.CountByUserID(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("count sessions: %w", err)
		}
		for ; count >= int64(u.opts.MaxSessions); count-- {
			if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
				return "", fmt.Errorf("evict session: %w", err)
			}
		}
	}

	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	now := u.now()
	s := &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.opts.SessionTTL),
	}
	if err := u.sessions.Create(ctx, s); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := u.signer.Sign(s.ID, userID, s.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
