package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hongjun500/codepair-go/internal/observe"
	"github.com/hongjun500/codepair-go/internal/session"
	"github.com/hongjun500/codepair-go/pkg/logger"
)

// API 会话创建/查询的 REST 边界。
// 实时引擎不依赖这里的任何逻辑，只消费它写进注册表的会话。
type API struct {
	registry *session.Registry
	baseURL  string
	log      *zap.SugaredLogger
}

func New(registry *session.Registry, baseURL string) *API {
	return &API{
		registry: registry,
		baseURL:  baseURL,
		log:      logger.L().Sugar(),
	}
}

// Register 挂载全部路由
func (a *API) Register(e *echo.Echo) {
	e.GET("/", a.root)
	e.GET("/api/health", a.health)
	e.POST("/api/sessions", a.createSession)
	e.GET("/api/sessions/:sessionId", a.getSession)
}

func (a *API) root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Online Coding Interview API",
		"status":  "running",
	})
}

func (a *API) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

type createSessionRequest struct {
	Language string `json:"language"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	ShareLink string `json:"shareLink"`
}

func (a *API) createSession(c echo.Context) error {
	req := createSessionRequest{}
	// body 可选，解析失败按默认语言处理
	_ = c.Bind(&req)
	language := req.Language
	if language == "" {
		language = session.DefaultLanguage
	}

	var (
		sess *session.Session
		err  error
	)
	// 9 位随机 ID 撞车概率极低，撞上就重新生成
	for {
		id := session.GenerateID()
		sess, err = a.registry.Create(id, session.DefaultTemplate(language), language)
		if err == nil {
			break
		}
		if !errors.Is(err, session.ErrSessionExists) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	observe.AddSessions(1)

	link, err := session.ShareLink(a.baseURL, sess.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	a.log.Infow("session_created", "session", sess.ID, "language", language)
	return c.JSON(http.StatusOK, createSessionResponse{
		SessionID: sess.ID,
		ShareLink: link,
	})
}

type sessionResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	UserCount int    `json:"userCount"`
}

func (a *API) getSession(c echo.Context) error {
	sess, ok := a.registry.Get(c.Param("sessionId"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
	}

	sess.Lock()
	resp := sessionResponse{
		ID:        sess.ID,
		Code:      sess.Code,
		Language:  sess.Language,
		UserCount: sess.MemberCount(),
	}
	sess.Unlock()

	return c.JSON(http.StatusOK, resp)
}
