package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/xiebiao/library/internal/client/api"
)

// showBooks 全部图书，query非空时按书名或作者过滤（不区分大小写）
func (a *App) showBooks(ctx context.Context, query string) ([]api.Book, error) {
	books, err := a.sess.Books(ctx)
	if err != nil {
		return nil, err
	}

	books = filterBooks(books, query)
	a.header("图书列表（%d本）", len(books))
	a.printBooks(books)
	return books, nil
}

// showMyBooks 当前用户借着的图书
func (a *App) showMyBooks(ctx context.Context) ([]api.Book, error) {
	books, err := a.sess.MyBooks(ctx)
	if err != nil {
		return nil, err
	}

	if len(books) == 0 {
		fmt.Fprintln(a.out, "您还没有借阅任何图书")
		return books, nil
	}
	a.header("我的借阅（%d本）", len(books))
	a.printBooks(books)
	return books, nil
}

func (a *App) addBook(ctx context.Context, title, author, isbn string) error {
	result, err := a.sess.AddBook(ctx, title, author, isbn)
	if err != nil {
		return err
	}

	if result.Created {
		a.ok("已添加《%s》 id=%s", result.Book.Title, result.Book.ID)
	} else {
		a.ok("ISBN %s 已存在，已更新为《%s》", result.Book.ISBN, result.Book.Title)
	}
	return nil
}

func (a *App) checkout(ctx context.Context, bookID string) error {
	receipt, err := a.sess.Checkout(ctx, bookID)
	if err != nil {
		return err
	}
	a.ok("借阅成功，请在 %s 前归还", receipt.DueDate)
	return nil
}

func (a *App) returnBook(ctx context.Context, bookID string) error {
	receipt, err := a.sess.Return(ctx, bookID)
	if err != nil {
		return err
	}
	message := receipt.Message
	if message == "" {
		message = "还书成功"
	}
	a.ok("%s", message)
	return nil
}

func (a *App) login(ctx context.Context, email, password string) error {
	if err := a.sess.Login(ctx, email, password); err != nil {
		return err
	}
	a.ok("登录成功")
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if !a.sess.IsAuthenticated() {
		a.warn("当前未登录")
		return nil
	}
	if err := a.sess.Logout(ctx); err != nil {
		// 本地已经退出，服务端作废Token失败只提示
		a.warn("已在本地退出，但通知服务器失败: %s", describe(err))
		return nil
	}
	a.ok("已退出登录")
	return nil
}

func (a *App) signUp(ctx context.Context, email, password string) error {
	result, err := a.sess.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	a.ok("注册成功: %s，请登录", result.Email)
	return nil
}

func (a *App) whoAmI(ctx context.Context) error {
	info, err := a.sess.WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "  %-8s %s\n", "用户ID:", info.UserID)
	if info.Email != "" {
		fmt.Fprintf(a.out, "  %-8s %s\n", "邮箱:", info.Email)
	}
	return nil
}

func (a *App) printBooks(books []api.Book) {
	if len(books) == 0 {
		fmt.Fprintln(a.out, "  （空）")
		return
	}
	for i, b := range books {
		status := color.GreenString("可借")
		if b.IsCheckedOut {
			status = color.RedString("已借出")
			if b.DueDate != nil {
				status += fmt.Sprintf(" 应还 %s", *b.DueDate)
			}
		}
		fmt.Fprintf(a.out, "  %2d. %s / %s  ISBN %s  [%s]  id=%s\n", i+1, b.Title, b.Author, b.ISBN, status, b.ID)
	}
}

func filterBooks(books []api.Book, query string) []api.Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return books
	}

	matched := make([]api.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), query) || strings.Contains(strings.ToLower(b.Author), query) {
			matched = append(matched, b)
		}
	}
	return matched
}
