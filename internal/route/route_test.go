package route_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"terminal-terrace/library/config"
	"terminal-terrace/library/internal/borrowing"
	bookModel "terminal-terrace/library/internal/model/book"
	"terminal-terrace/library/internal/model/user"
	"terminal-terrace/library/internal/route"
	"terminal-terrace/library/internal/testutils"
)

var fixedNow = time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC)

type envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
	Meta    *struct {
		CurrentPage int   `json:"current_page"`
		PerPage     int   `json:"per_page"`
		Total       int64 `json:"total"`
		LastPage    int   `json:"last_page"`
	} `json:"meta"`
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutils.SetupTestDB(t)
	rdb, _ := testutils.SetupTestRedis(t)
	cfg := &config.AppConfig{
		Auth: config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour, Issuer: "library-test"},
		Circulation: config.CirculationConfig{
			LoanDays:            14,
			MaxActiveBorrowings: 3,
		},
	}

	r := route.NewRouter(route.Dependencies{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		BorrowingOptions: []borrowing.Option{
			borrowing.WithClock(func() time.Time { return fixedNow }),
		},
	})
	return &testApp{t: t, db: db, router: r}
}

func (a *testApp) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *testApp) login(email, password string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, code, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func (a *testApp) loginAs(role user.Role) (*user.User, string) {
	a.t.Helper()
	u := testutils.CreateTestUser(a.db, testutils.WithRole(role))
	return u, a.login(u.Email, testutils.DefaultPassword)
}

func TestLogin(t *testing.T) {
	app := setupApp(t)
	u := testutils.CreateTestUser(app.db, testutils.WithEmail("reader@example.com"))

	code, env := app.do(http.MethodPost, "/api/login", "", map[string]string{
		"email": "reader@example.com", "password": testutils.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Login successful.", env.Message)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data, "token")
	assert.Contains(t, string(data["user"]), u.Email)
	assert.NotContains(t, string(data["user"]), "password")
}

func TestLoginFailures(t *testing.T) {
	app := setupApp(t)
	testutils.CreateTestUser(app.db, testutils.WithEmail("reader@example.com"))

	tests := []struct {
		name    string
		body    any
		message string
		field   string
	}{
		{"密码错误", map[string]string{"email": "reader@example.com", "password": "wrong-password"}, "Invalid credentials.", "email"},
		{"用户不存在", map[string]string{"email": "nobody@example.com", "password": "whatever"}, "Invalid credentials.", "email"},
		{"缺少密码", map[string]string{"email": "reader@example.com"}, "The password field is required.", "password"},
		{"邮箱格式错误", map[string]string{"email": "nope", "password": "x"}, "The email field must be a valid email address.", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := app.do(http.MethodPost, "/api/login", "", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.message, env.Message)
			assert.Contains(t, env.Errors, tt.field)
		})
	}
}

func TestAuthenticationRequired(t *testing.T) {
	app := setupApp(t)

	for _, token := range []string{"", "garbage"} {
		code, env := app.do(http.MethodGet, "/api/books", token, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Unauthenticated.", env.Message)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	app := setupApp(t)
	_, token := app.loginAs(user.RoleUser)
	_, other := app.loginAs(user.RoleUser)

	code, env := app.do(http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out successfully.", env.Message)
	assert.JSONEq(t, "[]", string(env.Data))

	code, _ = app.do(http.MethodGet, "/api/books", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(http.MethodGet, "/api/books", other, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminGate(t *testing.T) {
	app := setupApp(t)
	_, readerToken := app.loginAs(user.RoleUser)
	_, adminToken := app.loginAs(user.RoleAdmin)

	code, env := app.do(http.MethodGet, "/api/authors", readerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Admins only.", env.Message)

	code, env = app.do(http.MethodPost, "/api/authors", adminToken, map[string]string{"name": "Hermann Hesse"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Author created successfully.", env.Message)

	code, env = app.do(http.MethodGet, "/api/authors", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestBookCRUD(t *testing.T) {
	app := setupApp(t)
	_, adminToken := app.loginAs(user.RoleAdmin)
	author := testutils.CreateTestAuthor(app.db, "Robert C. Martin")

	code, env := app.do(http.MethodPost, "/api/books", adminToken, map[string]any{
		"title": "Clean Code", "author_id": author.ID, "isbn": "9780132350884", "publication_year": 2008,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created bookModel.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Available)

	code, env = app.do(http.MethodPost, "/api/books", adminToken, map[string]any{
		"title": "Future", "author_id": author.ID, "isbn": "1", "publication_year": time.Now().Year() + 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "publication_year")

	path := fmt.Sprintf("/api/books/%d", created.ID)
	code, env = app.do(http.MethodPut, path, adminToken, map[string]any{"title": "Clean Code 2e"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "Clean Code 2e")

	blanks := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"空白标题", map[string]any{"title": "   "}, "title"},
		{"空 ISBN", map[string]any{"isbn": ""}, "isbn"},
	}
	for _, tt := range blanks {
		t.Run(tt.name, func(t *testing.T) {
			code, env := app.do(http.MethodPut, path, adminToken, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.Equal(t, []string{"The " + tt.field + " field is required."}, env.Errors[tt.field])
		})
	}
	code, env = app.do(http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Clean Code 2e")

	code, _ = app.do(http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Book not found.", env.Message)
}

func TestSearchBooks(t *testing.T) {
	app := setupApp(t)
	_, token := app.loginAs(user.RoleUser)
	testutils.CreateTestBook(app.db, testutils.WithTitle("Siddhartha"))

	code, env := app.do(http.MethodGet, "/api/books/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, `Query parameter "q" is required.`, env.Message)

	code, env = app.do(http.MethodGet, "/api/books/search?q=sidd", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	code, env = app.do(http.MethodGet, "/api/books/search?q=zzz", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestBorrowAndReturn(t *testing.T) {
	app := setupApp(t)
	reader, token := app.loginAs(user.RoleUser)
	book := testutils.CreateTestBook(app.db)
	base := fmt.Sprintf("/api/users/%d", reader.ID)

	code, env := app.do(http.MethodPost, base+"/borrow", token, map[string]uint{"book_id": book.ID})
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, "Book borrowed successfully.", env.Message)

	var loan struct {
		DueAt time.Time `json:"due_at"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &loan))
	assert.True(t, loan.DueAt.Equal(time.Date(2025, 11, 24, 10, 0, 0, 0, time.UTC)))

	code, env = app.do(http.MethodPost, base+"/borrow", token, map[string]uint{"book_id": book.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "This book is currently unavailable.", env.Message)

	code, env = app.do(http.MethodGet, base+"/borrowed", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Borrowed books retrieved successfully.", env.Message)
	var active []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Len(t, active, 1)

	code, env = app.do(http.MethodPost, base+"/return", token, map[string]uint{"book_id": book.ID})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "Book returned successfully.", env.Message)

	code, env = app.do(http.MethodPost, base+"/return", token, map[string]uint{"book_id": book.ID})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No active borrowing found for this book.", env.Message)
}

func TestBorrowValidation(t *testing.T) {
	app := setupApp(t)
	reader, token := app.loginAs(user.RoleUser)
	base := fmt.Sprintf("/api/users/%d", reader.ID)

	code, env := app.do(http.MethodPost, base+"/borrow", token, map[string]uint{"book_id": 9999})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"The selected book does not exist."}, env.Errors["book_id"])

	code, env = app.do(http.MethodPost, base+"/borrow", token, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"A book ID is required."}, env.Errors["book_id"])
	assert.Equal(t, "A book ID is required.", env.Message)

	code, _ = app.do(http.MethodPost, base+"/borrow", token, "{not json")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestBorrowLimit(t *testing.T) {
	app := setupApp(t)
	reader, token := app.loginAs(user.RoleUser)
	for i := 0; i < 3; i++ {
		testutils.CreateActiveBorrowing(app.db, reader.ID, testutils.CreateTestBook(app.db).ID, fixedNow)
	}
	book := testutils.CreateTestBook(app.db)

	code, env := app.do(http.MethodPost, fmt.Sprintf("/api/users/%d/borrow", reader.ID), token, map[string]uint{"book_id": book.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already has 3 borrowed books.", env.Message)
}

func TestSelfOrAdmin(t *testing.T) {
	app := setupApp(t)
	reader, readerToken := app.loginAs(user.RoleUser)
	other, _ := app.loginAs(user.RoleUser)
	_, adminToken := app.loginAs(user.RoleAdmin)
	book := testutils.CreateTestBook(app.db)

	code, env := app.do(http.MethodGet, fmt.Sprintf("/api/users/%d/borrowed", other.ID), readerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You are not authorized to view this user’s borrowed books.", env.Message)

	code, env = app.do(http.MethodPost, fmt.Sprintf("/api/users/%d/borrow", other.ID), readerToken, map[string]uint{"book_id": book.ID})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "This action is unauthorized.", env.Message)

	code, _ = app.do(http.MethodGet, fmt.Sprintf("/api/users/%d/borrowed", reader.ID), readerToken, nil)
	assert.Equal(t, http.StatusOK, code)

	// 管理员可以代读者借书
	code, _ = app.do(http.MethodPost, fmt.Sprintf("/api/users/%d/borrow", other.ID), adminToken, map[string]uint{"book_id": book.ID})
	assert.Equal(t, http.StatusCreated, code)

	code, env = app.do(http.MethodGet, fmt.Sprintf("/api/users/%d/borrowed", other.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), book.Title)

	code, env = app.do(http.MethodGet, "/api/users/9999/borrowed", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found.", env.Message)
}

func TestUserManagement(t *testing.T) {
	app := setupApp(t)
	_, readerToken := app.loginAs(user.RoleUser)
	_, adminToken := app.loginAs(user.RoleAdmin)

	body := map[string]string{
		"name":                  "Ada",
		"email":                 "ada@example.com",
		"password":              "password123",
		"password_confirmation": "password123",
		"library_id":            "LIB-ADA",
	}

	code, _ := app.do(http.MethodPost, "/api/users", readerToken, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := app.do(http.MethodPost, "/api/users", adminToken, body)
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, "User created successfully.", env.Message)
	var ada struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ada))

	adaPath := fmt.Sprintf("/api/users/%d", ada.ID)
	code, env = app.do(http.MethodPut, adaPath, adminToken, map[string]string{"name": "", "library_id": "LIB-ADA"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, []string{"The name field is required."}, env.Errors["name"])

	code, env = app.do(http.MethodPut, adaPath, adminToken, map[string]string{"name": "Ada Lovelace", "library_id": "LIB-ADA"})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "Ada Lovelace")

	code, env = app.do(http.MethodPost, "/api/users", adminToken, body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "email")

	mismatch := map[string]string{}
	for k, v := range body {
		mismatch[k] = v
	}
	mismatch["password_confirmation"] = "different"
	mismatch["email"] = "other@example.com"
	code, env = app.do(http.MethodPost, "/api/users", adminToken, mismatch)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "password")

	code, env = app.do(http.MethodGet, "/api/users", readerToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(3), env.Meta.Total)
}

func TestDeletedUserTokenStopsWorking(t *testing.T) {
	app := setupApp(t)
	reader, readerToken := app.loginAs(user.RoleUser)
	_, adminToken := app.loginAs(user.RoleAdmin)

	code, _ := app.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", reader.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = app.do(http.MethodGet, "/api/books", readerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestReports(t *testing.T) {
	if testutils.UsingPostgres() {
		t.Skip("report queries need a pooled connection")
	}
	app := setupApp(t)
	reader, readerToken := app.loginAs(user.RoleUser)
	_, adminToken := app.loginAs(user.RoleAdmin)
	testutils.CreateActiveBorrowing(app.db, reader.ID, testutils.CreateTestBook(app.db).ID, time.Now().AddDate(0, 0, -30))

	code, _ := app.do(http.MethodGet, "/api/reports/summary", readerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := app.do(http.MethodGet, "/api/reports/overdue", adminToken, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, reader.Email, rows[0]["email"])

	code, env = app.do(http.MethodGet, "/api/reports/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"overdue_borrowings":1`)
}
