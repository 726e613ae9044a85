package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccountReposPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/sysu-ecnc-dev/repos", r.URL.Path)

		page := r.URL.Query().Get("page")
		repos := make([]Repo, 0)
		switch page {
		case "1":
			// 满页触发下一页请求
			for i := 0; i < 100; i++ {
				repos = append(repos, Repo{Name: fmt.Sprintf("repo-%d", i), Stars: i, Language: "Go"})
			}
		case "2":
			repos = append(repos, Repo{Name: "last", Stars: 1, Language: "TypeScript", UpdatedAt: time.Now()})
		}
		_ = json.NewEncoder(w).Encode(repos)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	repos, err := c.ListAccountRepos(context.Background(), "sysu-ecnc-dev")
	require.NoError(t, err)
	assert.Len(t, repos, 101)
	assert.Equal(t, "last", repos[100].Name)
}

func TestListAccountReposUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	_, err := c.ListAccountRepos(context.Background(), "nobody")
	assert.Error(t, err)
}

func TestDoRequestSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token123", 5*time.Second)
	repos, err := c.ListAccountRepos(context.Background(), "sysu-ecnc-dev")
	require.NoError(t, err)
	assert.Empty(t, repos)
}
