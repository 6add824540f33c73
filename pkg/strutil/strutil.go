// Package strutil 문자열 처리를 위한 유틸리티 함수들을 제공합니다.
package strutil

const maskSuffix = "***"

// Mask 토큰, 키 등의 민감 정보를 로그에 안전하게 남길 수 있도록 마스킹합니다.
//
//   - 4자 이하: 전체 마스킹 ("***")
//   - 12자 이하: 앞 2자만 노출 ("ab***")
//   - 그 외: 앞 4자와 뒤 4자만 노출 ("abcd***wxyz")
func Mask(s string) string {
	if s == "" {
		return ""
	}

	r := []rune(s)
	switch {
	case len(r) <= 4:
		return maskSuffix
	case len(r) <= 12:
		return string(r[:2]) + maskSuffix
	default:
		return string(r[:4]) + maskSuffix + string(r[len(r)-4:])
	}
}
