package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"

	"github.com/xiebiao/library/internal/client/api"
	"github.com/xiebiao/library/internal/client/session"
)

// 菜单选项
const (
	menuShow     = "0"
	menuBooks    = "1"
	menuAddBook  = "2"
	menuCheckout = "3"
	menuReturn   = "4"
	menuLogin    = "5"
	menuExit     = "6"
	menuSignUp   = "7"
	menuMyBooks  = "8"
)

type menuItem struct {
	key   string
	label string
}

// RunMenu 交互菜单，选择6或输入结束时返回
// 单个操作失败只打印错误，不退出菜单
func (a *App) RunMenu(ctx context.Context) error {
	a.printMenu()

	for {
		choice, err := a.prompt("\n请选择操作: ")
		if err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			return err
		}

		if choice == menuExit {
			fmt.Fprintln(a.out, "再见")
			return nil
		}

		if err := a.dispatch(ctx, choice); err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			a.failure(err)
		}
	}
}

func (a *App) printMenu() {
	a.header("========== 图书借阅系统 ==========")

	loginLabel := "登录"
	if a.sess.IsAuthenticated() {
		loginLabel = "退出登录"
	}

	items := []menuItem{
		{menuShow, "显示菜单"},
		{menuBooks, "查看图书"},
		{menuAddBook, "添加图书"},
		{menuCheckout, "借书"},
		{menuReturn, "还书"},
		{menuLogin, loginLabel},
		{menuExit, "退出程序"},
	}
	if !a.sess.IsAuthenticated() {
		items = append(items, menuItem{menuSignUp, "注册"})
	}
	items = append(items, menuItem{menuMyBooks, "我的借阅"})

	for _, item := range items {
		fmt.Fprintf(a.out, "  %s. %s\n", color.YellowString(item.key), item.label)
	}

	if a.sess.IsAuthenticated() {
		fmt.Fprintln(a.out, color.GreenString("（已登录）"))
	} else {
		fmt.Fprintln(a.out, color.New(color.Faint).Sprint("（未登录）"))
	}
}

func (a *App) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case menuShow:
		a.printMenu()
		return nil

	case menuBooks:
		query, err := a.prompt("搜索（直接回车显示全部）: ")
		if err != nil {
			return err
		}
		_, err = a.showBooks(ctx, query)
		return err

	case menuAddBook:
		if !a.sess.IsAuthenticated() {
			return session.ErrLoginRequired
		}
		title, err := a.promptRequired("书名: ")
		if err != nil {
			return err
		}
		author, err := a.promptRequired("作者: ")
		if err != nil {
			return err
		}
		isbn, err := a.promptRequired("ISBN: ")
		if err != nil {
			return err
		}
		return a.addBook(ctx, title, author, isbn)

	case menuCheckout:
		if !a.sess.IsAuthenticated() {
			return session.ErrLoginRequired
		}
		books, err := a.showBooks(ctx, "")
		if err != nil {
			return err
		}
		bookID, err := a.pickBook(books, "要借的图书（序号或ID，回车取消）: ")
		if err != nil || bookID == "" {
			return err
		}
		return a.checkout(ctx, bookID)

	case menuReturn:
		if !a.sess.IsAuthenticated() {
			return session.ErrLoginRequired
		}
		books, err := a.showMyBooks(ctx)
		if err != nil || len(books) == 0 {
			return err
		}
		bookID, err := a.pickBook(books, "要还的图书（序号或ID，回车取消）: ")
		if err != nil || bookID == "" {
			return err
		}
		return a.returnBook(ctx, bookID)

	case menuLogin:
		if a.sess.IsAuthenticated() {
			return a.logout(ctx)
		}
		email, password, err := a.readCredentials("")
		if err != nil {
			return err
		}
		return a.login(ctx, email, password)

	case menuSignUp:
		if a.sess.IsAuthenticated() {
			a.warn("已登录，如需注册新账号请先退出登录")
			return nil
		}
		email, password, err := a.readCredentials("")
		if err != nil {
			return err
		}
		return a.signUp(ctx, email, password)

	case menuMyBooks:
		if !a.sess.IsAuthenticated() {
			return session.ErrLoginRequired
		}
		_, err := a.showMyBooks(ctx)
		return err

	case "":
		return nil

	default:
		a.warn("无效的选项: %s（输入0查看菜单）", choice)
		return nil
	}
}

// pickBook 按列表序号（从1开始）或图书ID选择，回车返回空字符串
func (a *App) pickBook(books []api.Book, label string) (string, error) {
	input, err := a.prompt(label)
	if err != nil || input == "" {
		return "", err
	}

	if n, convErr := strconv.Atoi(input); convErr == nil {
		if n < 1 || n > len(books) {
			return "", fmt.Errorf("序号超出范围: %d", n)
		}
		return books[n-1].ID, nil
	}
	return input, nil
}
