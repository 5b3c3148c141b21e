package usecase

import "errors"

// 에러 코드
const (
	ErrCodeValidation         = "validation"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAccountLocked      = "account_locked"
	ErrCodeInvalidCode        = "invalid_code"
	ErrCodeExpired            = "expired"
	ErrCodeAlreadyVerified    = "already_verified"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeForbidden          = "forbidden"
	ErrCodeInvalidOrExpired   = "invalid_or_expired"
	ErrCodeInternal           = "internal"
)

// AuthError 유스케이스 계층의 도메인 에러
type AuthError struct {
	Code    string
	Message string
	Err     error
}

// Error error 인터페이스 구현
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 내부 에러 반환
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError 새 도메인 에러 생성
func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

// WrapAuthError 내부 에러를 감싸는 도메인 에러 생성
func WrapAuthError(code, message string, err error) *AuthError {
	return &AuthError{Code: code, Message: message, Err: err}
}

// IsAuthError 에러가 지정된 코드의 AuthError인지 확인
func IsAuthError(err error, code string) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code == code
	}
	return false
}

// AsAuthError 에러를 AuthError로 변환. 아니면 nil.
func AsAuthError(err error) *AuthError {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return nil
}
