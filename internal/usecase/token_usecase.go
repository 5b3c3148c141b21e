package usecase

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/domain/repository"
	"membership-server/internal/usecase/constants"
	"membership-server/internal/usecase/dto"
	"membership-server/internal/usecase/interfaces"
)

// TokenConfig 토큰 관련 설정
type TokenConfig struct {
	Issuer             string // iss 클레임
	JwtPrivateKey      string // ECDSA 개인키 (PEM 형식)
	JwtPublicKey       string // ECDSA 공개키 (PEM 형식)
	SessionTokenExpiry int    // 세션 토큰 만료 시간 (시간)
	MfaTokenExpiry     int    // 중간 토큰 만료 시간 (시간)
}

// TokenUseCase 토큰 유스케이스 구현체
type TokenUseCase struct {
	logger          *zap.Logger
	config          TokenConfig
	cacheRepository repository.CacheRepository

	privateKey *ecdsa.PrivateKey
	publicKey  *ecdsa.PublicKey
}

// NewTokenUseCase 새 토큰 유스케이스 생성. PEM 키는 생성 시점에 파싱한다.
func NewTokenUseCase(
	logger *zap.Logger,
	config TokenConfig,
	cacheRepo repository.CacheRepository,
) (interfaces.TokenUseCase, error) {
	uc := &TokenUseCase{
		logger:          logger,
		config:          config,
		cacheRepository: cacheRepo,
	}

	// 개인키 파싱
	block, _ := pem.Decode([]byte(config.JwtPrivateKey))
	if block == nil || block.Type != "EC PRIVATE KEY" {
		return nil, fmt.Errorf("EC 개인키 디코딩 실패")
	}
	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("개인키 파싱 실패: %w", err)
	}
	uc.privateKey = privateKey

	// 공개키 파싱
	block, _ = pem.Decode([]byte(config.JwtPublicKey))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("EC 공개키 디코딩 실패")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("공개키 파싱 실패: %w", err)
	}
	publicKey, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("ECDSA 공개키가 아님")
	}
	uc.publicKey = publicKey

	return uc, nil
}

// sign 공통 클레임으로 토큰 서명
func (uc *TokenUseCase) sign(user *entity.User, mfaPending bool, method string, lifetime time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(lifetime)

	claims := jwt.MapClaims{
		"sub":         user.ID,
		"name":        user.FullName,
		"email":       user.Email,
		"role":        string(user.Role),
		"iss":         uc.config.Issuer,
		"iat":         now.Unix(),
		"exp":         expiresAt.Unix(),
		"jti":         uuid.NewString(),
		"mfa_pending": mfaPending,
	}
	if method != "" {
		claims["mfa_method"] = method
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signedToken, err := token.SignedString(uc.privateKey)
	if err != nil {
		uc.logger.Error("토큰 서명 실패", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("토큰 서명 실패: %w", err)
	}

	return signedToken, expiresAt, nil
}

// GenerateSessionToken 세션 토큰 발급
func (uc *TokenUseCase) GenerateSessionToken(ctx context.Context, user *entity.User) (string, time.Time, error) {
	expiry := uc.config.SessionTokenExpiry
	if expiry <= 0 {
		expiry = 24
	}
	return uc.sign(user, false, "", time.Duration(expiry)*time.Hour)
}

// GenerateMfaToken 2단계 인증 대기용 중간 토큰 발급
func (uc *TokenUseCase) GenerateMfaToken(ctx context.Context, user *entity.User, method string) (string, time.Time, error) {
	expiry := uc.config.MfaTokenExpiry
	if expiry <= 0 {
		expiry = 1
	}
	return uc.sign(user, true, method, time.Duration(expiry)*time.Hour)
}

// ValidateToken 토큰 서명/만료/폐기 여부 검증 후 클레임 반환
func (uc *TokenUseCase) ValidateToken(ctx context.Context, tokenStr string) (*dto.TokenClaims, error) {
	// 1) 토큰 파싱 및 서명 검증
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("잘못된 서명 알고리즘: %v", token.Header["alg"])
		}
		return uc.publicKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrCodeInvalidOrExpired, "만료된 토큰입니다")
		}
		return nil, WrapAuthError(ErrCodeInvalidOrExpired, "토큰 검증 실패", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrCodeInvalidOrExpired, "유효하지 않은 토큰입니다")
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, NewAuthError(ErrCodeInvalidOrExpired, "토큰에 사용자 ID가 없습니다")
	}

	jti, _ := claims["jti"].(string)
	mfaPending, _ := claims["mfa_pending"].(bool)
	method, _ := claims["mfa_method"].(string)

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	// 2) 폐기 여부 확인
	if jti != "" {
		redisKey := constants.RevokedTokenPrefix + jti
		revoked, err := uc.cacheRepository.Get(ctx, redisKey)
		if err == nil && revoked == "true" {
			return nil, NewAuthError(ErrCodeInvalidOrExpired, "폐기된 토큰입니다")
		}
	}

	return &dto.TokenClaims{
		UserID:     userID,
		Jti:        jti,
		MfaPending: mfaPending,
		MfaMethod:  method,
		ExpiresAt:  expiresAt,
	}, nil
}

// RevokeToken 토큰을 남은 유효기간 동안 폐기 목록에 등록
func (uc *TokenUseCase) RevokeToken(ctx context.Context, tokenStr string) error {
	// 폐기를 위해서는 서명이 유효해야 한다
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("잘못된 서명 알고리즘: %v", token.Header["alg"])
		}
		return uc.publicKey, nil
	})
	if err != nil {
		// 이미 만료된 토큰은 폐기할 필요가 없다
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return WrapAuthError(ErrCodeInvalidOrExpired, "토큰 검증 실패", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return NewAuthError(ErrCodeInvalidOrExpired, "유효하지 않은 토큰입니다")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return NewAuthError(ErrCodeInvalidOrExpired, "토큰에 jti가 없습니다")
	}

	remaining := time.Hour
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		remaining = time.Until(exp.Time)
		if remaining <= 0 {
			return nil
		}
	}

	redisKey := constants.RevokedTokenPrefix + jti
	if err := uc.cacheRepository.Set(ctx, redisKey, "true", remaining); err != nil {
		uc.logger.Error("토큰 폐기 실패", zap.Error(err))
		return fmt.Errorf("토큰 폐기 실패: %w", err)
	}

	return nil
}
