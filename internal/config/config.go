// Package config 애플리케이션 설정의 로드와 검증을 담당합니다.
//
// 설정은 다음 순서로 병합되며 뒤에 오는 값이 앞의 값을 덮어씁니다.
//
//  1. 코드에 정의된 기본값 (newDefaultConfig)
//  2. JSON 설정 파일 (기본: pixiv-bookmark.json)
//  3. PIXIV_BOOKMARK_ 접두사를 가진 환경 변수 (이중 언더스코어(__)는 계층 구분자)
//
// 예: PIXIV_BOOKMARK_PIXIV__REQUEST_TIMEOUT=10s -> pixiv.request_timeout
package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션 이름
	AppName = "pixiv-bookmark"

	// DefaultFilename 기본 설정 파일 이름
	DefaultFilename = AppName + ".json"

	envPrefix = "PIXIV_BOOKMARK_"
)

// Load 기본 설정 파일을 읽어 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 설정 파일을 읽어 AppConfig를 생성합니다.
// filename이 비어 있으면 파일 없이 기본값과 환경 변수만으로 구성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "기본 설정값 로드에 실패했습니다")
	}

	if filename != "" {
		if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
			if os.IsNotExist(err) {
				return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
			}
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 구조체로 변환하는데 실패했습니다")
	}

	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// normalizeEnvKey PIXIV_BOOKMARK_PIXIV__OS_RELEASE -> pixiv.os_release
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
