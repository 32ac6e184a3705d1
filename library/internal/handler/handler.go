package handler

import (
	"io"
	"net/http"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/Astemirdum/library-issue-service/pkg/logger"
	md "github.com/Astemirdum/library-issue-service/pkg/middleware"
	"github.com/Astemirdum/library-issue-service/pkg/validate"
	_ "github.com/Astemirdum/library-issue-service/swagger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	svc    LibraryService
	tokens md.TokenParser
	log    *zap.Logger
}

func New(svc LibraryService, tokens md.TokenParser, log *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		tokens: tokens,
		log:    log.Named("handler"),
	}
}

func (h *Handler) NewRouter(logCfg logger.Log) *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(logCfg)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/signup", h.SignUp)
	api.POST("/login", h.Login)

	authed := api.Group("", md.JwtAuthentication(h.tokens))
	h.registerRoutes(authed)

	return e
}

func (h *Handler) registerRoutes(g *echo.Group) {
	anyRole := md.RequireRole(auth.RoleStudent, auth.RoleAdmin)
	student := md.RequireRole(auth.RoleStudent)
	admin := md.RequireRole(auth.RoleAdmin)

	g.GET("/profile", h.Profile, anyRole)

	issue := g.Group("/issue")
	issue.POST("/new/request", h.SubmitRequest, student)
	issue.GET("/requests", h.ListRequests, admin)
	issue.POST("/approve", h.ApproveRequest, admin)
	issue.POST("/reject", h.RejectRequest, admin)
	issue.POST("/cancel-issue", h.CancelLoan, anyRole)
	issue.POST("/delete-all", h.PurgeFinalized, admin)
	issue.GET("/issued-books", h.ListLoans, admin)
	issue.GET("/my-books", h.MyBooks, student)
	issue.GET("/events", h.ListEvents, admin)

	books := g.Group("/books")
	books.GET("", h.ListBooks, anyRole)
	books.GET("/:id", h.GetBook, anyRole)
	books.POST("", h.CreateBook, admin)
	books.PUT("/:id", h.UpdateBook, admin)
	books.DELETE("/:id", h.DeleteBook, admin)

	students := g.Group("/students", admin)
	students.GET("", h.ListStudents)
	students.POST("", h.CreateStudent)
	students.PUT("/:id", h.UpdateStudent)
	students.DELETE("/:id", h.DeleteStudent)

	messages := g.Group("/messages")
	messages.POST("/send", h.SendMessage, student)
	messages.POST("/reply/:messageId", h.ReplyMessage, admin)
	messages.POST("/send-to-all", h.SendToAll, admin)
	messages.POST("/send-to-student/:id", h.SendToStudent, admin)
	messages.GET("/inbox", h.Inbox, anyRole)
	messages.GET("/admin", h.AdminMessages, admin)
	messages.GET("/admin-messages", h.StudentMessages, student)
	messages.DELETE("/delete/:messageId", h.DeleteMessage, admin)

	g.GET("/statistics", h.Statistics, admin)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the service error taxonomy onto status codes.
func (h *Handler) httpError(err error) *echo.HTTPError {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrUnavailable),
		errors.Is(err, errs.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrInconsistent):
		h.log.Error("inconsistent state", zap.Error(err))
	}
	return echo.NewHTTPError(code, err.Error())
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// bindOptional is bind for endpoints whose body may be omitted. A request without a
// body, including one of unknown length, leaves req at its zero value.
func bindOptional(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func paramID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}

func principal(c echo.Context) (auth.Principal, error) {
	p, err := md.GetPrincipal(c)
	if err != nil {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return p, nil
}
