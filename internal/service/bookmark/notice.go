package bookmark

// NoticeTitle 북마크 추가 진행 알림의 제목
const NoticeTitle = "Adding artwork to bookmarks"

// NoticeBody 알림 본문을 만듭니다. "by" 뒤에 공백이 없는 형태는 기존 클라이언트의 문구를 그대로 따른 것입니다.
//
//	NoticeBody(Request{ArtworkTitle: "Sunset", ArtworkArtist: "Alice"}) // "Sunset byAlice"
func NoticeBody(r Request) string {
	return r.ArtworkTitle + " by" + r.ArtworkArtist
}
