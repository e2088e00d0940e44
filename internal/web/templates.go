package web

import (
	"embed"
	"html/template"
	"net/http"

	"washdesk/internal/metrics"
	"washdesk/internal/models"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// viewData carries everything the page templates render. Derived values
// (remaining balance, avatar URLs) are computed at render time, never
// stored between requests.
type viewData struct {
	Title     string
	Session   *models.Session
	Phase     string
	Error     string
	CanSubmit bool
	PageToken string

	// payment page
	Entry       *models.PaymentEntry
	Remaining   string
	AmountValue string
	Methods     []string

	// assignment page
	PersonnelID         string
	Applications        []models.CarwashApplication
	SelectedAppointment string

	// personnel pages
	Personnel []models.PersonnelProfile
	Profile   *models.PersonnelProfile

	// login page
	Email string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, page string, data viewData) {
	if data.Phase == "" {
		data.Phase = "ready"
	}
	metrics.IncPageRender(page, data.Phase)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
	}
}
