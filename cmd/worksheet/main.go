package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/client"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "worksheet",
	Short: "员工排班表终端客户端",
	Long:  "worksheet 在终端里查看和编辑团队的周排班表，单元格编辑会自动聚合后同步到服务端。",
}

var loginCmd = &cobra.Command{
	Use:   "login <用户名>",
	Short: "登录并保存令牌",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "登出并清除本地令牌",
	RunE:  runLogout,
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "打开排班表界面",
	RunE:  runOpen,
}

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "列出团队的 GitHub 仓库",
	RunE:  runRepos,
}

var projectCmd = &cobra.Command{
	Use:   "project <add|remove> <员工ID> <项目>",
	Short: "增删某个员工的项目归属（仅管理员）",
	Args:  cobra.ExactArgs(3),
	RunE:  runProject,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(projectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient 读取配置和本地令牌，构建 API 客户端
func newClient() (*client.Config, *client.LocalStore, *client.Client, error) {
	cfg, err := client.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	local, err := client.OpenLocalStore()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("打开本地状态库失败: %w", err)
	}

	token, err := local.GetState(client.StateToken)
	if err != nil {
		local.Close()
		return nil, nil, nil, fmt.Errorf("读取本地令牌失败: %w", err)
	}

	return cfg, local, client.New(cfg.ServerURL, token, slog.Default()), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := args[0]

	fmt.Print("密码: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("读取密码失败: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	_, local, c, err := newClient()
	if err != nil {
		return err
	}
	defer local.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, user, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := local.SetState(client.StateToken, token); err != nil {
		return fmt.Errorf("保存令牌失败: %w", err)
	}
	if err := local.SetState(client.StateUsername, user.Username); err != nil {
		return fmt.Errorf("保存用户名失败: %w", err)
	}

	fmt.Printf("登录成功，%s（%s）\n", user.FullName, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, local, c, err := newClient()
	if err != nil {
		return err
	}
	defer local.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 服务端登出失败也要清掉本地令牌
	if err := c.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "服务端登出失败: %v\n", err)
	}
	if err := local.DeleteState(client.StateToken); err != nil {
		return fmt.Errorf("清除本地令牌失败: %w", err)
	}

	fmt.Println("已登出")
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, local, c, err := newClient()
	if err != nil {
		return err
	}
	defer local.Close()

	// TUI 运行期间日志写到文件，避免弄花屏幕
	if logFile, err := openLogFile(); err == nil {
		defer logFile.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	user, err := c.Verify(ctx)
	cancel()
	if err != nil {
		_ = local.DeleteState(client.StateToken)
		return fmt.Errorf("令牌无效，请先 worksheet login: %w", err)
	}

	lang := cfg.Language
	if lang == "" {
		lang, _ = local.GetState(client.StateLanguage)
	}

	app := tui.NewApp(tui.Options{
		Client:     c,
		Local:      local,
		Language:   lang,
		FlushDelay: time.Duration(cfg.FlushDelayMS) * time.Millisecond,
		PageSize:   cfg.PageSize,
		IsManager:  user.Role == domain.RoleManager,
	})

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("运行界面失败: %w", err)
	}
	if app.AuthFailed() {
		return fmt.Errorf("令牌已失效，请重新 worksheet login")
	}
	return nil
}

func runRepos(cmd *cobra.Command, args []string) error {
	_, local, c, err := newClient()
	if err != nil {
		return err
	}
	defer local.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos, err := c.GetRepos(ctx)
	if err != nil {
		return err
	}

	for _, repo := range repos {
		fmt.Printf("%-40s  ★ %-5d  %-12s  %s\n",
			repo.FullName, repo.Stars, repo.Language, repo.UpdatedAt.Format("2006-01-02"))
	}
	return nil
}

func runProject(cmd *cobra.Command, args []string) error {
	action := args[0]
	if action != "add" && action != "remove" {
		return fmt.Errorf("动作必须是 add 或 remove")
	}

	_, local, c, err := newClient()
	if err != nil {
		return err
	}
	defer local.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	change := domain.ProjectChange{
		EmployeeID: args[1],
		Project:    args[2],
		Action:     domain.ProjectAction(action),
	}
	if err := c.ChangeProject(ctx, change); err != nil {
		return err
	}

	fmt.Println("项目归属已更新")
	return nil
}

func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "staff-worksheet", "worksheet.log")
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
