package nostd

import (
	"errors"
	"net/http"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhtrans "github.com/go-playground/validator/v10/translations/zh"
	"github.com/labstack/echo/v4"
)

// CustomValidator echo参数校验器，校验失败信息翻译为中文
type CustomValidator struct {
	Validator *validator.Validate
	trans     ut.Translator
}

// TransInit 初始化中文翻译器
func (cv *CustomValidator) TransInit() error {
	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale, en.New())

	trans, ok := uni.GetTranslator("zh")
	if !ok {
		return errors.New("zh translator not found")
	}
	cv.trans = trans

	return zhtrans.RegisterDefaultTranslations(cv.Validator, trans)
}

// Validate 实现 echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.Validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errs[0].Translate(cv.trans))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
