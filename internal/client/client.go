package client

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

const defaultBaseURL = "http://localhost:3000"

// ErrUnauthorized 表示令牌缺失或已失效，调用方应清掉本地令牌并要求重新登录
var ErrUnauthorized = errors.New("令牌无效或已过期")

// 服务端统一的响应信封
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL string, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetToken 更新后续请求携带的令牌（登录成功后调用）
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var bodyBytes []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyBytes = data
	}

	url := c.baseURL + path

	c.logger.Debug("API request", "method", method, "path", path)

	var resp *http.Response
	maxRetries := 3
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// 请求体第一次发送后就被读完了，每次尝试都重建请求
		var reqBody io.Reader
		if bodyBytes != nil {
			reqBody = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return nil, fmt.Errorf("sending request: %w", err)
			}
			c.logger.Debug("请求失败，重试中", "method", method, "path", path, "attempt", attempt+1, "error", err)
			time.Sleep(backoff(attempt))
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return nil, fmt.Errorf("API returned status %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.logger.Debug("服务端暂时不可用，重试中", "method", method, "path", path, "status", resp.StatusCode, "attempt", attempt+1)
			time.Sleep(backoff(attempt))
			continue
		}
		break
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if !env.Success {
		return nil, errors.New(env.Message)
	}

	return env.Data, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// Login 校验用户名密码，成功后客户端自动带上返回的令牌
func (c *Client) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}

	var result struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", nil, fmt.Errorf("parsing login response: %w", err)
	}

	c.token = result.Token
	return result.Token, result.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}

// Verify 检查令牌是否仍然有效，有效时返回当前用户信息
func (c *Client) Verify(ctx context.Context) (*domain.User, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/auth/verify", nil)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parsing verify response: %w", err)
	}
	return &user, nil
}

// WeeklySchedule 是周工作表接口返回的数据
type WeeklySchedule struct {
	Employees   []*domain.Employee `json:"employees"`
	CurrentWeek string             `json:"currentWeek"`
}

//go:embed fallback_week.json
var fallbackWeek []byte

// GetWeeklySchedule 拉取 date 所在周的工作表。服务端完全联系不上时退回内置的
// 示例快照，只读展示，Fallback 置为 true。
func (c *Client) GetWeeklySchedule(ctx context.Context, date string, lang string) (*WeeklySchedule, bool, error) {
	path := "/schedule/weekly"
	query := make([]string, 0, 2)
	if date != "" {
		query = append(query, "date="+date)
	}
	if lang != "" {
		query = append(query, "lang="+lang)
	}
	if len(query) > 0 {
		path += "?" + strings.Join(query, "&")
	}

	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, false, err
		}
		// 降级：退回内置快照
		c.logger.Error("拉取周工作表失败，使用内置快照", "error", err)
		var fallback WeeklySchedule
		if err := json.Unmarshal(fallbackWeek, &fallback); err != nil {
			return nil, false, fmt.Errorf("parsing fallback snapshot: %w", err)
		}
		return &fallback, true, nil
	}

	var week WeeklySchedule
	if err := json.Unmarshal(data, &week); err != nil {
		return nil, false, fmt.Errorf("parsing schedule response: %w", err)
	}
	return &week, false, nil
}

// SubmitChanges 把聚合好的一批待同步变更发给服务端
func (c *Client) SubmitChanges(ctx context.Context, changes []domain.PendingChange) error {
	if len(changes) == 0 {
		return nil
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/schedule/update", domain.ScheduleUpdateRequest{Changes: changes})
	return err
}

// GetProjects 返回 员工ID -> 项目标签串 的归属映射
func (c *Client) GetProjects(ctx context.Context) (map[string]string, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/projects/all", nil)
	if err != nil {
		return nil, err
	}

	assignments := make(map[string]string)
	if err := json.Unmarshal(data, &assignments); err != nil {
		return nil, fmt.Errorf("parsing projects response: %w", err)
	}
	return assignments, nil
}

// ChangeProject 增删某个员工的项目归属（仅管理员）
func (c *Client) ChangeProject(ctx context.Context, change domain.ProjectChange) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/projects/change", change)
	return err
}

// AddEmployee 添加一个空排班的新员工（仅管理员）
func (c *Client) AddEmployee(ctx context.Context, name string) (*domain.Employee, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/schedule/add", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	var employee domain.Employee
	if err := json.Unmarshal(data, &employee); err != nil {
		return nil, fmt.Errorf("parsing employee response: %w", err)
	}
	return &employee, nil
}

// DeleteEmployee 删除员工及其全部排班（仅管理员）
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/schedule/delete/"+id, nil)
	return err
}

// GetRepos 返回团队 GitHub 账号下的仓库列表
func (c *Client) GetRepos(ctx context.Context) ([]Repo, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/repos", nil)
	if err != nil {
		return nil, err
	}

	var repos []Repo
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("parsing repos response: %w", err)
	}
	return repos, nil
}

// Repo 是服务端转发的仓库信息
type Repo struct {
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Stars     int       `json:"stargazers_count"`
	Language  string    `json:"language"`
	UpdatedAt time.Time `json:"updated_at"`
}
