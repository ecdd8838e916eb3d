package handler

import (
	"embed"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-ui/internal/usecase/userinterface"
	"users-ui/pkg/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

var backendName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// UserHandler serves the UserInterface page and its form posts
type UserHandler struct {
	uc             userinterface.Usecase
	defaultBackend string
	staticDir      string
	log            *zap.Logger
}

// Option configures a UserHandler
type Option func(*UserHandler)

// WithStaticDir makes the page omit a backend logo that is missing from dir.
func WithStaticDir(dir string) Option {
	return func(h *UserHandler) {
		h.staticDir = dir
	}
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc userinterface.Usecase, defaultBackend string, log *zap.Logger, opts ...Option) *UserHandler {
	h := &UserHandler{
		uc:             uc,
		defaultBackend: defaultBackend,
		log:            log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Index handles GET /
func (h *UserHandler) Index(c *gin.Context) {
	h.render(c, h.defaultBackend)
}

// Show handles GET /backends/:backend
func (h *UserHandler) Show(c *gin.Context) {
	backend, ok := h.backend(c)
	if !ok {
		return
	}
	h.render(c, backend)
}

// CreateUser handles POST /backends/:backend/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	backend, ok := h.backend(c)
	if !ok {
		return
	}

	var form userinterface.CreateForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, "invalid create form", err)
		return
	}

	_, err := h.uc.CreateUser(c.Request.Context(), h.session(c), backend, form)
	h.redirect(c, backend, err)
}

// UpdateUser handles POST /backends/:backend/users/update
func (h *UserHandler) UpdateUser(c *gin.Context) {
	backend, ok := h.backend(c)
	if !ok {
		return
	}

	var form userinterface.UpdateForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, "invalid update form", err)
		return
	}

	_, err := h.uc.UpdateUser(c.Request.Context(), h.session(c), backend, form)
	h.redirect(c, backend, err)
}

// DeleteUser handles POST /backends/:backend/users/:id/delete
func (h *UserHandler) DeleteUser(c *gin.Context) {
	backend, ok := h.backend(c)
	if !ok {
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.badRequest(c, "invalid user id", err)
		return
	}

	_, err = h.uc.DeleteUser(c.Request.Context(), h.session(c), backend, id)
	h.redirect(c, backend, err)
}

// Refresh handles POST /backends/:backend/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	backend, ok := h.backend(c)
	if !ok {
		return
	}

	_, err := h.uc.Refresh(c.Request.Context(), h.session(c), backend)
	h.redirect(c, backend, err)
}

func (h *UserHandler) render(c *gin.Context, backend string) {
	state, err := h.uc.Mount(c.Request.Context(), h.session(c), backend)
	if err != nil {
		h.internalError(c, err)
		return
	}

	page := userinterface.NewPage(backend, state)
	if !h.logoExists(page.LogoFile) {
		page.LogoURL = ""
	}
	c.HTML(http.StatusOK, "page", page)
}

func (h *UserHandler) logoExists(name string) bool {
	if h.staticDir == "" {
		return true
	}
	info, err := os.Stat(filepath.Join(h.staticDir, name))
	return err == nil && !info.IsDir()
}

// redirect sends the browser back to the page it posted from.
func (h *UserHandler) redirect(c *gin.Context, backend string, err error) {
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, h.PagePath(backend))
}

// PagePath returns the path of a backend's page.
func (h *UserHandler) PagePath(backend string) string {
	if backend == h.defaultBackend {
		return "/"
	}
	return "/backends/" + backend
}

func (h *UserHandler) backend(c *gin.Context) (string, bool) {
	backend := c.Param("backend")
	if !backendName.MatchString(backend) {
		c.String(http.StatusNotFound, "unknown backend")
		return "", false
	}
	return backend, true
}

func (h *UserHandler) session(c *gin.Context) string {
	return logger.GetSessionID(c.Request.Context())
}

func (h *UserHandler) badRequest(c *gin.Context, msg string, err error) {
	logger.WithContext(c.Request.Context(), h.log).Warn(msg, zap.Error(err))
	c.String(http.StatusBadRequest, msg)
}

func (h *UserHandler) internalError(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context(), h.log).Error("view state unavailable", zap.Error(err))
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "An internal error occurred")
}
