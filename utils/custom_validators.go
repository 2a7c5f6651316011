package utils

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/gin-gonic/gin/binding"       // Gin 框架的数据绑定包
	"github.com/go-playground/validator/v10" // 强大的数据校验库
)

var (
	// loginKeyRegex 预编译的登录名正则表达式，用于提升校验性能。
	// 规则：只包含大小写字母、数字和下划线，长度在4到20个字符之间。
	loginKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_]{4,20}$`)

	// nicknameRegex 预编译的昵称正则表达式。
	// 规则：字母、数字、下划线和韩文/中文字符，长度在1到20个字符之间。
	nicknameRegex = regexp.MustCompile(`^[\p{L}\p{N}_]{1,20}$`)
)

// ValidateLoginKey 校验本地账号登录名格式。
func ValidateLoginKey(fl validator.FieldLevel) bool {
	return loginKeyRegex.MatchString(fl.Field().String())
}

// ValidateNickname 校验昵称格式。
func ValidateNickname(fl validator.FieldLevel) bool {
	return nicknameRegex.MatchString(fl.Field().String())
}

// ValidatePassword 校验密码格式。
// 要求：长度在6到30位之间，并且必须同时包含至少一个字母和一个数字。
func ValidatePassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	length := len(pwd)
	if length < 6 || length > 30 { // 检查长度是否符合要求
		return false
	}
	var hasLetter, hasDigit bool // 标记是否包含字母和数字
	for _, char := range pwd {   // 遍历密码中的每个字符
		if unicode.IsLetter(char) { // 判断是否为字母
			hasLetter = true
		} else if unicode.IsDigit(char) { // 判断是否为数字
			hasDigit = true
		}
		if hasLetter && hasDigit { // 如果同时包含字母和数字，则校验通过
			return true
		}
	}
	return false // 如果遍历完仍未同时满足，则校验失败
}

// RegisterCustomValidators 将自定义校验器注册到 Gin 的默认校验引擎。
// - 应在应用启动时调用一次，失败应阻止启动。
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("无法获取 Gin 的校验引擎")
	}
	if err := v.RegisterValidation("LoginKey", ValidateLoginKey); err != nil {
		return fmt.Errorf("注册 LoginKey 校验器失败: %w", err)
	}
	if err := v.RegisterValidation("Nickname", ValidateNickname); err != nil {
		return fmt.Errorf("注册 Nickname 校验器失败: %w", err)
	}
	if err := v.RegisterValidation("Password", ValidatePassword); err != nil {
		return fmt.Errorf("注册 Password 校验器失败: %w", err)
	}
	return nil
}
