package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
)

func writeEnvelope(w http.ResponseWriter, success bool, message string, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["username"] != "zhangsan" || req["password"] != "secret" {
			writeEnvelope(w, false, "用户名不存在或密码错误", nil)
			return
		}

		writeEnvelope(w, true, "登录成功", map[string]any{
			"token": "test-token",
			"user":  map[string]any{"username": "zhangsan", "role": "员工"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "", nil)

	token, user, err := c.Login(context.Background(), "zhangsan", "secret")
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)
	assert.Equal(t, "zhangsan", user.Username)
	assert.Equal(t, domain.RoleStaff, user.Role)

	_, _, err = c.Login(context.Background(), "zhangsan", "wrong")
	assert.EqualError(t, err, "用户名不存在或密码错误")
}

func TestGetWeeklySchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/schedule/weekly", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "2024-01-03", r.URL.Query().Get("date"))
		require.Equal(t, "en", r.URL.Query().Get("lang"))

		writeEnvelope(w, true, "获取周工作表成功", map[string]any{
			"currentWeek": "1-7 January 2024",
			"employees": []map[string]any{
				{"id": "e1", "name": "张伟", "schedule": map[string]any{}, "totalHours": "8"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token", nil)

	week, fallback, err := c.GetWeeklySchedule(context.Background(), "2024-01-03", "en")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "1-7 January 2024", week.CurrentWeek)
	require.Len(t, week.Employees, 1)
	assert.Equal(t, "张伟", week.Employees[0].Name)
}

func TestGetWeeklyScheduleFallback(t *testing.T) {
	// 响应不是合法信封，视同服务端不可用，退回内置快照
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token", nil)

	week, fallback, err := c.GetWeeklySchedule(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.NotEmpty(t, week.Employees)
}

func TestGetWeeklyScheduleUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeEnvelope(w, false, "令牌无效", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, "stale-token", nil)

	// 令牌失效不降级，直接报错让调用方清令牌重新登录
	_, _, err := c.GetWeeklySchedule(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmitChanges(t *testing.T) {
	var got domain.ScheduleUpdateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/schedule/update", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(w, true, "同步成功", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token", nil)

	start, end := "09:00", "17:00"
	changes := []domain.PendingChange{
		{
			EmployeeID: "e1",
			WeekStart:  "2024-01-01",
			Days: map[string]domain.PendingDay{
				"monday": {Start: &start, End: &end},
			},
		},
	}
	require.NoError(t, c.SubmitChanges(context.Background(), changes))
	require.Len(t, got.Changes, 1)
	assert.Equal(t, "e1", got.Changes[0].EmployeeID)

	// 空变更不应发请求
	require.NoError(t, c.SubmitChanges(context.Background(), nil))
}

func TestRetryResendsRequestBody(t *testing.T) {
	// 第一次返回 500，重试的请求必须带上完整的请求体
	var attempts atomic.Int32
	var got domain.ScheduleUpdateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(w, true, "同步成功", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token", nil)

	start, end := "09:00", "17:00"
	changes := []domain.PendingChange{
		{
			EmployeeID: "e1",
			WeekStart:  "2024-01-01",
			Days: map[string]domain.PendingDay{
				"monday": {Start: &start, End: &end},
			},
		},
	}
	require.NoError(t, c.SubmitChanges(context.Background(), changes))
	assert.EqualValues(t, 2, attempts.Load())
	require.Len(t, got.Changes, 1)
	assert.Equal(t, "e1", got.Changes[0].EmployeeID)
	require.Contains(t, got.Changes[0].Days, "monday")
	assert.Equal(t, "09:00", *got.Changes[0].Days["monday"].Start)
}

func TestLocalStore(t *testing.T) {
	store, err := openLocalStoreAt(filepath.Join(t.TempDir(), "worksheet.db"))
	require.NoError(t, err)
	defer store.Close()

	// 不存在的键返回空串
	value, err := store.GetState(StateToken)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, store.SetState(StateToken, "abc"))
	require.NoError(t, store.SetState(StateToken, "def")) // 覆盖

	value, err = store.GetState(StateToken)
	require.NoError(t, err)
	assert.Equal(t, "def", value)

	require.NoError(t, store.DeleteState(StateToken))
	value, err = store.GetState(StateToken)
	require.NoError(t, err)
	assert.Empty(t, value)
}
