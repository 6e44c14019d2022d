// Package cli 图书借阅终端客户端
//
// 不带子命令启动时进入交互菜单，子命令用于脚本调用。
// 登录状态由session.Session维护，Token保存在本地文件里，下次启动自动恢复。
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/client/api"
	"github.com/xiebiao/library/internal/client/session"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
)

// App 终端客户端
type App struct {
	sess   *session.Session
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// stdinFd 标准输入是终端时用于关闭密码回显，-1表示不是终端
	stdinFd int
}

// NewApp 创建客户端
func NewApp(sess *session.Session, in io.Reader, out, errOut io.Writer) *App {
	return &App{
		sess:    sess,
		in:      bufio.NewReader(in),
		out:     out,
		errOut:  errOut,
		stdinFd: -1,
	}
}

// Execute main入口
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("错误:"), describe(err))
		os.Exit(1)
	}
}

type rootFlags struct {
	noColor   bool
	apiBase   string
	tokenFile string
}

// NewRootCmd 根命令，按配置文件和命令行参数初始化会话
func NewRootCmd() *cobra.Command {
	app := &App{stdinFd: -1}
	flags := &rootFlags{}

	return newRootCmd(app, func(cmd *cobra.Command) error {
		return app.setup(cmd, flags)
	}, flags)
}

// newRootCmd setup在每个命令执行前调用，测试里替换成直接注入会话
func newRootCmd(app *App, setup func(cmd *cobra.Command) error, flags *rootFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "library",
		Short: "图书借阅终端客户端",
		Long: `library 连接图书借阅服务，浏览、借阅、归还图书。

不带子命令运行进入交互菜单。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initColor(flags.noColor)
			return setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunMenu(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "关闭彩色输出")
	root.PersistentFlags().StringVar(&flags.apiBase, "api", "", "服务地址（默认读取配置api_base）")
	root.PersistentFlags().StringVar(&flags.tokenFile, "token-file", "", "Token文件路径（默认读取配置token_file）")

	root.AddCommand(
		newBooksCmd(app),
		newMyBooksCmd(app),
		newAddBookCmd(app),
		newCheckoutCmd(app),
		newReturnCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newSignUpCmd(app),
		newWhoAmICmd(app),
	)
	return root
}

// setup 加载客户端配置，创建会话并恢复上次的登录
func (a *App) setup(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if flags.apiBase != "" {
		cfg.APIBase = strings.TrimRight(flags.apiBase, "/")
	}
	if flags.tokenFile != "" {
		cfg.TokenFile = flags.tokenFile
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return err
	}

	client := api.New(cfg.APIBase, cfg.Timeout)
	sess := session.New(client, session.NewTokenStore(cfg.TokenFile), log)

	a.sess = sess
	a.in = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()
	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(int(f.Fd())) {
		a.stdinFd = int(f.Fd())
	}

	if err := sess.Start(cmd.Context()); err != nil {
		log.Debug("恢复登录失败", zap.Error(err))
		a.warn("无法验证已保存的登录信息: %s", describe(err))
	}
	return nil
}

// ok 绿色成功提示
func (a *App) ok(format string, args ...interface{}) {
	fmt.Fprintln(a.out, color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// warn 黄色警告，写到错误输出
func (a *App) warn(format string, args ...interface{}) {
	fmt.Fprintln(a.errOut, color.YellowString("!"), fmt.Sprintf(format, args...))
}

// failure 红色错误，写到错误输出
func (a *App) failure(err error) {
	fmt.Fprintln(a.errOut, color.RedString("✗"), describe(err))
}

// header 青色标题
func (a *App) header(format string, args ...interface{}) {
	fmt.Fprintln(a.out, color.CyanString(fmt.Sprintf(format, args...)))
}

func initColor(noColor bool) {
	if noColor || !isTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
}
