package nostd

import (
	"errors"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhtranslations "github.com/go-playground/validator/v10/translations/zh"
)

// CustomValidator echo 请求参数校验器，带中文翻译
type CustomValidator struct {
	Validator *validator.Validate
	trans     ut.Translator
}

// TransInit 初始化校验错误的中文翻译
func (cv *CustomValidator) TransInit() error {
	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)

	trans, ok := uni.GetTranslator("zh")
	if !ok {
		return errors.New("failed to get zh translator")
	}
	if err := zhtranslations.RegisterDefaultTranslations(cv.Validator, trans); err != nil {
		return err
	}

	cv.trans = trans
	return nil
}

// Validate 校验请求结构体，错误信息翻译为中文
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.Validator.Struct(i); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && cv.trans != nil {
			for _, fieldError := range validationErrors {
				return errors.New(fieldError.Translate(cv.trans))
			}
		}
		return err
	}
	return nil
}
