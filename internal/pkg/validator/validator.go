// Package validator API 요청 구조체 검증과 사용자용 에러 메시지 생성을 제공합니다.
//
// 필드 이름은 `korean` 태그가 있으면 그 값을, 없으면 구조체 필드 이름을 snake_case로 바꾼 값을 사용합니다.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Get 패키지 전역에서 공유하는 validator 인스턴스를 반환합니다.
// validator.Validate는 구조체 메타데이터를 캐시하므로 하나의 인스턴스를 재사용합니다.
func Get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(fieldName)
	})
	return instance
}

func fieldName(f reflect.StructField) string {
	if name := f.Tag.Get("korean"); name != "" {
		return name
	}
	return strcase.ToSnake(f.Name)
}

// Struct 구조체의 validate 태그를 검증합니다.
func Struct(s any) error {
	return Get().Struct(s)
}

// FormatValidationError 검증 에러 중 첫 번째 항목을 사용자에게 보여줄 문장으로 변환합니다.
// ValidationErrors가 아닌 에러는 Error() 문자열을 그대로 반환합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err.Error()
	}

	return formatFieldError(ves[0])
}

func formatFieldError(fe validator.FieldError) string {
	name := fe.Field()
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s는 필수입니다", name)
	case "min", "gte":
		if isString {
			return fmt.Sprintf("%s는 최소 %s자 이상이어야 합니다", name, param)
		}
		return fmt.Sprintf("%s는 %s 이상이어야 합니다", name, param)
	case "max", "lte":
		if isString {
			return fmt.Sprintf("%s는 최대 %s자까지 입력 가능합니다", name, param)
		}
		return fmt.Sprintf("%s는 %s 이하이어야 합니다", name, param)
	case "len":
		if isString {
			return fmt.Sprintf("%s는 %s자여야 합니다", name, param)
		}
		return fmt.Sprintf("%s는 갯수가 %s개여야 합니다", name, param)
	case "numeric", "number":
		return fmt.Sprintf("%s는 숫자만 입력 가능합니다", name)
	case "alphanum":
		return fmt.Sprintf("%s는 영문자와 숫자만 입력 가능합니다", name)
	case "url":
		return fmt.Sprintf("%s는 올바른 URL 형식이어야 합니다", name)
	case "oneof":
		return fmt.Sprintf("%s는 허용된 값 중 하나여야 합니다 [%s]", name, param)
	case "printascii":
		return fmt.Sprintf("%s는 출력 가능한 ASCII 문자만 입력 가능합니다", name)
	default:
		return fmt.Sprintf("%s 값 검증 실패 (%s)", name, fe.Tag())
	}
}
