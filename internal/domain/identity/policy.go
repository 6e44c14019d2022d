package identity

import (
	"regexp"
	"strings"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// NormalizeEmail 去掉首尾空白并转为小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignup 注册参数校验
// 规则：
// 1. 邮箱格式：用户名@域名.后缀
// 2. 密码8-20位，必须包含字母和数字
func ValidateSignup(email, password string) error {
	if !emailPattern.MatchString(email) {
		return apperrors.ErrInvalidEmail
	}
	return validatePasswordStrength(password)
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
