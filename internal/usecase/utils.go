package usecase

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// GenerateRandomString은 지정된 길이의 무작위 문자열을 생성합니다.
func GenerateRandomString(length int) string {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	b := make([]byte, length)
	for i := range b {
		randIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		b[i] = letters[randIndex.Int64()]
	}
	return string(b)
}

// GenerateNumericOtp는 지정된 길이의 무작위 숫자 코드를 생성합니다.
func GenerateNumericOtp(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	for i := range b {
		randIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		b[i] = digits[randIndex.Int64()]
	}
	return string(b)
}

// HashPassword는 비밀번호를 해싱하고 솔트를 반환합니다.
func HashPassword(password string) (hashedPassword string, salt string, err error) {
	// 솔트 생성
	saltBytes := make([]byte, 16)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", err
	}
	salt = base64.StdEncoding.EncodeToString(saltBytes)

	// 비밀번호 해싱
	hash, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	return string(hash), salt, nil
}

// VerifyPassword는 제공된 비밀번호가 저장된 해시와 일치하는지 확인합니다.
func VerifyPassword(hashedPassword, inputPassword, salt string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(inputPassword+salt))
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\d{11}$`)
)

// NormalizeEmail 이메일 정규화 (소문자 + 공백 제거)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail 이메일 형식 검증
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhoneNumber 전화번호 형식 검증 (11자리 숫자)
func IsValidPhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidatePasswordStrength 비밀번호 강도 검증
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return NewAuthError(ErrCodeValidation, "비밀번호는 최소 8자 이상이어야 합니다")
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`).MatchString(password)

	count := 0
	if hasUpper {
		count++
	}
	if hasLower {
		count++
	}
	if hasNumber {
		count++
	}
	if hasSpecial {
		count++
	}

	if count < 3 {
		return NewAuthError(ErrCodeValidation, "비밀번호는 대문자, 소문자, 숫자, 특수문자 중 3가지 이상을 포함해야 합니다")
	}

	return nil
}
