package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Repo 是仓库列表里展示用的元数据
type Repo struct {
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Stars     int       `json:"stargazers_count"`
	Language  string    `json:"language"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client 是只读的仓库列表 API 客户端，带分页和指数退避重试
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	var resp *http.Response
	maxRetries := 3
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err = c.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return nil, fmt.Errorf("发送请求失败: %w", err)
			}
			time.Sleep(backoff(attempt))
			continue
		}

		// 限流和服务端错误重试，其余直接返回
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return nil, fmt.Errorf("上游返回 %d，重试 %d 次后放弃", resp.StatusCode, maxRetries)
			}
			time.Sleep(backoff(attempt))
			continue
		}
		break
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("上游返回 %d", resp.StatusCode)
	}

	return body, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// ListAccountRepos 拉取固定账号的全部仓库，按更新时间倒序
func (c *Client) ListAccountRepos(ctx context.Context, account string) ([]Repo, error) {
	var allRepos []Repo
	page := 1

	for {
		path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=100&page=%d", account, page)
		data, err := c.doRequest(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("拉取仓库列表失败: %w", err)
		}

		var repos []Repo
		if err := json.Unmarshal(data, &repos); err != nil {
			return nil, fmt.Errorf("解析仓库列表失败: %w", err)
		}

		allRepos = append(allRepos, repos...)

		if len(repos) < 100 {
			break
		}
		page++
	}

	return allRepos, nil
}
