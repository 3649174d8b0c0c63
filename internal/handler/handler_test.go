package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/config"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
)

// fakeRepository 用内存数据代替 Postgres
type fakeRepository struct {
	users   map[int64]*domain.User
	changes []*domain.ShiftChange
}

func (f *fakeRepository) GetUserByID(id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeRepository) GetUserByUsername(username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) GetAllUsers() ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeRepository) CreateUser(user *domain.User) error {
	user.ID = int64(len(f.users) + 1)
	user.IsActive = true
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepository) InsertShiftChange(change *domain.ShiftChange) error {
	f.changes = append(f.changes, change)
	return nil
}

func (f *fakeRepository) GetRecentShiftChanges(limit int) ([]*domain.ShiftChange, error) {
	if limit > len(f.changes) {
		limit = len(f.changes)
	}
	return f.changes[:limit], nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Webhook.VerifyToken = "secret-token"
	cfg.JWT.Secret = "test-jwt-secret"

	repo := &fakeRepository{users: map[int64]*domain.User{
		1: {ID: 1, Username: "admin", Role: domain.RoleAdmin, IsActive: true},
		2: {ID: 2, Username: "gone", Role: domain.RoleAdmin, IsActive: false},
		3: {ID: 3, Username: "operator", Role: domain.RoleOperator, IsActive: true},
	}}

	h, err := NewHandler(cfg, repo, nil, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h
}

func authCookie(t *testing.T, h *Handler, userID int64) *http.Cookie {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Subject:   strconv.FormatInt(userID, 10),
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	require.NoError(t, err)

	return &http.Cookie{Name: authCookieName, Value: ss}
}

func TestVerifyWebhook(t *testing.T) {
	h := newTestHandler(t)

	t.Run("正确的 token 原样返回 challenge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "12345", rec.Body.String())
	})

	t.Run("错误的 token 返回 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NotContains(t, rec.Body.String(), "12345")
	})

	t.Run("缺少 subscribe 模式返回 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=secret-token&hub.challenge=12345", nil)
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestReceiveWebhookAlwaysAcks(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"非法 JSON", "not json at all"},
		{"空事件", `{"entry":[]}`},
		{"没有文本的消息事件", `{"entry":[{"messaging":[{"sender":{"id":"42"},"message":{"mid":"m1","text":""}}]}]}`},
		{"缺少 message 字段", `{"entry":[{"messaging":[{"sender":{"id":"42"}}]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			h.Mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"ok"`)
		})
	}
}

func TestReplyText(t *testing.T) {
	req := &domain.ActionRequest{
		Action:    string(domain.ActionAdd),
		Name:      "Alice",
		Day:       "Tuesday",
		StartTime: "9am",
		EndTime:   "5pm",
	}

	t.Run("每种结果都有固定模板", func(t *testing.T) {
		cases := []struct {
			outcome  domain.Outcome
			contains string
		}{
			{domain.OutcomeUpdateSuccess, "Your shift has been scheduled"},
			{domain.OutcomeDeleteSuccess, "has been removed"},
			{domain.OutcomeInvalidAction, "'add' or 'delete'"},
			{domain.OutcomeInvalidName, "couldn't find your name"},
			{domain.OutcomeInvalidTime, "between 9am and 6pm"},
			{domain.OutcomeEntryExists, "already have a shift"},
			{domain.OutcomeDayLimitReached, "fully booked"},
			{domain.OutcomeStoreUnavailable, "temporarily unavailable"},
		}

		for _, tc := range cases {
			assert.Contains(t, ReplyText(tc.outcome, req), tc.contains, string(tc.outcome))
		}
	})

	t.Run("成功的回复带上请求明细", func(t *testing.T) {
		text := ReplyText(domain.OutcomeUpdateSuccess, req)
		assert.Contains(t, text, "Alice")
		assert.Contains(t, text, "Tuesday")
		assert.Contains(t, text, "9am")
		assert.Contains(t, text, "5pm")
	})

	t.Run("未知结果退回通用错误", func(t *testing.T) {
		assert.Equal(t, genericErrorReply, ReplyText(domain.Outcome("mystery"), req))
	})
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestHandler(t)

	t.Run("未登录请求被拒绝", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shift-changes", nil)
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Contains(t, rec.Body.String(), "用户未登录")
	})

	t.Run("有效令牌对应在职用户", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shift-changes", nil)
		req.AddCookie(authCookie(t, h, 1))
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Contains(t, rec.Body.String(), `"success":true`)
	})

	t.Run("已停用的账号即使持有效令牌也被拒绝", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shift-changes", nil)
		req.AddCookie(authCookie(t, h, 2))
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Contains(t, rec.Body.String(), "账号已被停用")
	})

	t.Run("令牌指向不存在的用户", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shift-changes", nil)
		req.AddCookie(authCookie(t, h, 99))
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Contains(t, rec.Body.String(), "无效的令牌")
	})

	t.Run("角色以数据库为准", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/", nil)
		req.AddCookie(authCookie(t, h, 3))
		rec := httptest.NewRecorder()

		h.Mux.ServeHTTP(rec, req)

		assert.Contains(t, rec.Body.String(), "权限不足")
	})
}

func TestOperatorMessageCoversAllOutcomes(t *testing.T) {
	outcomes := []domain.Outcome{
		domain.OutcomeUpdateSuccess,
		domain.OutcomeDeleteSuccess,
		domain.OutcomeInvalidAction,
		domain.OutcomeInvalidName,
		domain.OutcomeInvalidTime,
		domain.OutcomeEntryExists,
		domain.OutcomeDayLimitReached,
		domain.OutcomeStoreUnavailable,
	}

	for _, outcome := range outcomes {
		assert.NotEqual(t, "未知错误", operatorMessage(outcome), string(outcome))
	}
}
