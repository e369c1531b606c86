package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"scholarhub_backend/internal/app"
	"scholarhub_backend/internal/config"
	"scholarhub_backend/internal/models"
	"scholarhub_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestJWTSecret - секрет подписи токенов тестового сервера
const TestJWTSecret = "test-secret"

type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Config   *config.Config
	Services *services.ServiceContainer
}

// NewTestConfig - конфигурация без внешних зависимостей: sqlite, локальное
// хранилище во временной директории, почта выключена.
func NewTestConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = TestJWTSecret
	cfg.Auth.RateLimitRPS = 1000
	cfg.Auth.RateLimitBurst = 1000
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/uploads"
	cfg.Upload.MaxSize = 5 * 1024 * 1024
	cfg.Upload.ImageQuality = 80
	cfg.Upload.Folder = "ScholarshipDocs"
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}
	cfg.Notifications.BroadcastCooldownMs = 3000
	cfg.Notifications.FanoutBatchSize = 2
	return cfg
}

// NewTestServer поднимает роутер приложения поверх in-memory БД
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := NewTestConfig(t)
	db := NewTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router, container, err := app.SetupRouter(ctx, cfg, db)
	require.NoError(t, err, "Не удалось собрать роутер")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:   server,
		DB:       db,
		Config:   cfg,
		Services: container,
	}
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err, "Ошибка создания HTTP-запроса")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.do(t, req)
}

// FormFile - файл multipart-формы
type FormFile struct {
	Name    string
	Content []byte
}

// SendMultipart отправляет multipart-форму с полями и файлами
func (ts *TestServer) SendMultipart(t *testing.T, method, path, token string, fields map[string]string, files map[string][]FormFile) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, list := range files {
		for _, f := range list {
			part, err := w.CreateFormFile(field, f.Name)
			require.NoError(t, err)
			_, err = part.Write(f.Content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")

	return res, string(resBodyBytes)
}

// CreateAndLoginUser создает пользователя напрямую в БД и логинит его через API
func (ts *TestServer) CreateAndLoginUser(t *testing.T, username, email string, isAdmin bool) (string, *models.User) {
	t.Helper()

	user := CreateUser(t, ts.DB, username, email, isAdmin)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": DefaultPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)

	var loginResponse struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &loginResponse))
	require.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	return loginResponse.Token, user
}
