package bookmark

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PixivAndroidApp/5.0.220 (Android 14; SM-S918N)", UserAgent("14", "SM-S918N"))
}

func TestNoticeBody(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Sunset byAlice", NoticeBody(Request{ArtworkTitle: "Sunset", ArtworkArtist: "Alice"}))
}

func TestRequest_Normalized(t *testing.T) {
	t.Parallel()

	got := Request{ArtworkID: " 123 ", ArtworkTitle: " Sunset ", AccessToken: "\ttok "}.normalized()

	assert.Equal(t, Request{ArtworkID: "123", ArtworkTitle: " Sunset ", AccessToken: "tok"}, got)
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"user_message 우선", `{"error":{"user_message":"이미 등록됨","message":"dup"}}`, "이미 등록됨"},
		{"message 사용", `{"error":{"user_message":"","message":"Invalid illust_id"}}`, "Invalid illust_id"},
		{"reason 사용", `{"error":{"reason":"rate limited"}}`, "rate limited"},
		{"에러 필드 없음", `{}`, ""},
		{"JSON 아님", `<html>502</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, errorMessage(strings.NewReader(tt.body)))
		})
	}
}
