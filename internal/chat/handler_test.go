package chat

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"kwallo/internal/account"
	"kwallo/internal/calendar"
	"kwallo/internal/knowledge"
	"kwallo/internal/profile"
	"kwallo/pkg/ctxkeys"
	"kwallo/pkg/llm"
	"kwallo/pkg/logging"
)

type fakeAccounts struct {
	user *account.User
}

func (f *fakeAccounts) Get(_ context.Context, _ string) (*account.User, error) {
	return f.user, nil
}

type fakeProvider struct{}

func (fakeProvider) Generate(_ context.Context, _ llm.Request) (*llm.Response, error) {
	return &llm.Response{Text: "hi"}, nil
}

func (fakeProvider) Name() string { return "fake:model" }

func newTestRouter(t *testing.T, accounts AccountSource, claimTier string) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	handler := NewHandler(
		NewStore(db),
		profile.NewStore(db),
		knowledge.NewStore(db),
		calendar.NewStore(db),
		accounts,
		fakeProvider{},
		nil,
		logging.NewLogger(),
	)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(string(ctxkeys.KeyUserID), "user-1")
		c.Set(string(ctxkeys.KeyTier), claimTier)
		c.Next()
	})
	RegisterRoutes(router, handler)
	return router, mock
}

func postChat(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(),
		"POST", "/profiles/profile-1/chat", bytes.NewBufferString(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSendGatesOnStoredTier(t *testing.T) {
	// The token still claims a paid plan but the stored row says free.
	// The row wins.
	accounts := &fakeAccounts{user: &account.User{ID: "user-1", SubscriptionTier: account.TierFree}}
	router, _ := newTestRouter(t, accounts, account.TierPro)

	w := postChat(router)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleSendUpgradedTierNeedsNoNewToken(t *testing.T) {
	// The row says starter while the token still claims free; the request
	// passes the plan gate and proceeds to the profile lookup.
	accounts := &fakeAccounts{user: &account.User{ID: "user-1", SubscriptionTier: account.TierStarter}}
	router, mock := newTestRouter(t, accounts, account.TierFree)

	mock.ExpectQuery(`SELECT .+ FROM business_profiles`).WillReturnError(sql.ErrNoRows)

	w := postChat(router)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from the profile lookup, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
