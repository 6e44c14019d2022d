package cli

import (
	"github.com/spf13/cobra"
)

func newBooksCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "books",
		Short: "查看全部图书",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := app.showBooks(cmd.Context(), search)
			return err
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "按书名或作者过滤")
	return cmd
}

func newMyBooksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "my-books",
		Short: "查看我借阅的图书",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := app.showMyBooks(cmd.Context())
			return err
		},
	}
}

func newAddBookCmd(app *App) *cobra.Command {
	var title, author, isbn string

	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "添加图书（ISBN已存在时更新书名和作者）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if title == "" {
				if title, err = app.promptRequired("书名: "); err != nil {
					return err
				}
			}
			if author == "" {
				if author, err = app.promptRequired("作者: "); err != nil {
					return err
				}
			}
			if isbn == "" {
				if isbn, err = app.promptRequired("ISBN: "); err != nil {
					return err
				}
			}
			return app.addBook(cmd.Context(), title, author, isbn)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "书名")
	cmd.Flags().StringVar(&author, "author", "", "作者")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN")
	return cmd
}

func newCheckoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <book-id>",
		Short: "借书",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.checkout(cmd.Context(), args[0])
		},
	}
}

func newReturnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "return <book-id>",
		Short: "还书",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.returnBook(cmd.Context(), args[0])
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "登录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := app.readCredentials(email)
			if err != nil {
				return err
			}
			return app.login(cmd.Context(), email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "邮箱")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "退出登录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.logout(cmd.Context())
		},
	}
}

func newSignUpCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "注册账号",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := app.readCredentials(email)
			if err != nil {
				return err
			}
			return app.signUp(cmd.Context(), email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "邮箱")
	return cmd
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "查看当前登录用户",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.whoAmI(cmd.Context())
		},
	}
}

// readCredentials 邮箱没有通过参数给出时提示输入，密码总是提示输入
func (a *App) readCredentials(email string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = a.promptRequired("邮箱: "); err != nil {
			return "", "", err
		}
	}
	password, err := a.promptPassword("密码: ")
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}
