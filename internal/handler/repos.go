package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/github"
)

func reposCacheKey(account string) string {
	return "github_repos_" + account
}

func reposStaleKey(account string) string {
	return "github_repos_stale_" + account
}

// GetRepos 返回固定账号的仓库列表。优先读缓存；缓存过期则请求上游并刷新
// 缓存；上游挂了退回不过期的陈旧副本，实在没有才报错。
func (h *Handler) GetRepos(w http.ResponseWriter, r *http.Request) {
	account := h.config.GitHub.Account

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if cached, err := h.redisClient.Get(ctx, reposCacheKey(account)).Result(); err == nil {
		var repos []github.Repo
		if err := json.Unmarshal([]byte(cached), &repos); err == nil {
			h.successResponse(w, r, "获取仓库列表成功", repos)
			return
		}
	} else if err != redis.Nil {
		h.internalServerError(w, r, err)
		return
	}

	upstreamCtx, upstreamCancel := context.WithTimeout(r.Context(), time.Duration(h.config.GitHub.RequestTimeout)*time.Second)
	defer upstreamCancel()

	repos, err := h.githubClient.ListAccountRepos(upstreamCtx, account)
	if err != nil {
		// 降级：读陈旧副本
		stale, staleErr := h.redisClient.Get(ctx, reposStaleKey(account)).Result()
		if staleErr != nil {
			h.logInternalServerError(r, err)
			h.errorResponse(w, r, "仓库列表暂时不可用")
			return
		}

		var staleRepos []github.Repo
		if err := json.Unmarshal([]byte(stale), &staleRepos); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "获取仓库列表成功（缓存副本）", staleRepos)
		return
	}

	if body, err := json.Marshal(repos); err == nil {
		ttl := time.Duration(h.config.GitHub.CacheTTL) * time.Second
		if err := h.redisClient.Set(ctx, reposCacheKey(account), body, ttl).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
		// 陈旧副本不设过期，留给上游故障时用
		if err := h.redisClient.Set(ctx, reposStaleKey(account), body, 0).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.successResponse(w, r, "获取仓库列表成功", repos)
}
