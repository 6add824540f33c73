package bookmark

import "fmt"

// clientVersion pixiv 앱 API가 허용하는 Android 클라이언트 버전
const clientVersion = "5.0.220"

// UserAgent pixiv Android 앱과 같은 형식의 User-Agent를 만듭니다.
//
//	UserAgent("13", "Pixel 7") // "PixivAndroidApp/5.0.220 (Android 13; Pixel 7)"
func UserAgent(osRelease, deviceModel string) string {
	return fmt.Sprintf("PixivAndroidApp/%s (Android %s; %s)", clientVersion, osRelease, deviceModel)
}
