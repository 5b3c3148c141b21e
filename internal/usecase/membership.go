package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// 멤버십 ID 정책
const (
	membershipIDPrefix = "TSAN"

	// membershipIDDigits 기본 일련번호 자릿수
	membershipIDDigits = 7

	// membershipIDWideDigits 번호 공간 소진 시 확장 자릿수
	membershipIDWideDigits = 8

	// membershipIDMaxRetries 유니크 충돌 시 재시도 횟수.
	// 마지막 시도는 확장 자릿수로 생성한다.
	membershipIDMaxRetries = 5
)

// CouncilAbbreviation 평의회 이름에서 3글자 약어를 만든다.
// 단어 머리글자를 우선 사용하고, 부족하면 첫 단어의 앞 글자로 채운다.
func CouncilAbbreviation(council string) string {
	var initials []rune
	var firstWord []rune

	for i, word := range strings.Fields(council) {
		runes := []rune(word)
		letters := make([]rune, 0, len(runes))
		for _, r := range runes {
			if unicode.IsLetter(r) {
				letters = append(letters, unicode.ToUpper(r))
			}
		}
		if len(letters) == 0 {
			continue
		}
		if i == 0 {
			firstWord = letters
		}
		initials = append(initials, letters[0])
	}

	abbr := initials
	if len(abbr) < 3 {
		abbr = firstWord
	}
	if len(abbr) == 0 {
		return "GEN"
	}
	if len(abbr) > 3 {
		abbr = abbr[:3]
	}
	for len(abbr) < 3 {
		abbr = append(abbr, 'X')
	}
	return string(abbr)
}

// NewMembershipID 멤버십 ID 생성.
// 형식: TSAN-<약어>-<일련번호>. wide가 참이면 확장 자릿수를 사용한다.
func NewMembershipID(council string, wide bool) string {
	digits := membershipIDDigits
	if wide {
		digits = membershipIDWideDigits
	}

	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, _ := rand.Int(rand.Reader, max)
	return fmt.Sprintf("%s-%s-%0*d", membershipIDPrefix, CouncilAbbreviation(council), digits, n)
}
