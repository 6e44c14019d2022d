package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// errInputClosed 标准输入已关闭（Ctrl+D或管道读完）
var errInputClosed = errors.New("输入已结束")

func isTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// prompt 显示提示并读取一行，去掉首尾空白
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)

	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptRequired 读取非空输入，为空时重新提示
func (a *App) promptRequired(label string) (string, error) {
	for {
		value, err := a.prompt(label)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		a.warn("不能为空")
	}
}

// promptPassword 标准输入是终端时不回显
func (a *App) promptPassword(label string) (string, error) {
	if a.stdinFd < 0 {
		return a.prompt(label)
	}

	fmt.Fprint(a.out, label)
	raw, err := term.ReadPassword(a.stdinFd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return string(raw), nil
}

// describe 错误转成给用户看的一句话
func describe(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
