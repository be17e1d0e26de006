package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/davidbz/greeter/internal/domain"
	"github.com/davidbz/greeter/internal/http/web"
	"github.com/davidbz/greeter/internal/observability"
)

const faviconContentType = "image/vnd.microsoft.icon"

// HelloForm is the submitted greeting form.
type HelloForm struct {
	Name string `form:"name" validate:"required"`
}

// helloView is the data rendered into the result page.
type helloView struct {
	Name    string
	Message string
}

// Handler handles HTTP requests.
type Handler struct {
	greeter   domain.Greeter
	events    domain.EventPublisher
	templates *template.Template
	static    fs.FS
	validate  *validator.Validate
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(greeter domain.Greeter, events domain.EventPublisher) (*Handler, error) {
	if greeter == nil {
		return nil, errors.New("greeter cannot be nil")
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		greeter:   greeter,
		events:    events,
		templates: templates,
		static:    web.Static(),
		validate:  validator.New(),
	}, nil
}

// HandleIndex renders the name form.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	observability.FromContext(r.Context()).Info("request for index page received")
	h.render(w, r, web.IndexTemplate, nil)
}

// HandleFavicon serves the embedded icon.
func (h *Handler) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", faviconContentType)
	http.ServeFileFS(w, r, h.static, web.FaviconPath)
}

// HandleHello greets the submitted name, or redirects to the form when it is missing.
func (h *Handler) HandleHello(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	form := HelloForm{Name: r.PostFormValue("name")}

	if h.events != nil {
		h.events.Publish(ctx, observability.EventHelloReceived, map[string]interface{}{
			"name": form.Name,
		})
	}

	if err := h.validateForm(ctx, form); err != nil {
		logger.Info("request for hello page received with no name or blank name, redirecting",
			observability.Error(err),
		)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	logger.Info("request for hello page received", observability.String("name", form.Name))

	// The completion call outlives a client disconnect.
	message := h.greeter.Greet(context.WithoutCancel(ctx), form.Name)

	h.render(w, r, web.HelloTemplate, helloView{
		Name:    form.Name,
		Message: message,
	})
}

// validateForm reports domain.ErrNameRequired when the name is missing.
func (h *Handler) validateForm(ctx context.Context, form HelloForm) error {
	if err := h.validate.StructCtx(ctx, form); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNameRequired, err)
	}
	return nil
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		observability.FromContext(r.Context()).Error("failed to render template",
			observability.String("template", name),
			observability.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
