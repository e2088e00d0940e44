package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"washdesk/internal/clients/backend"
	"washdesk/internal/export"
	"washdesk/internal/metrics"
	"washdesk/internal/models"
	"washdesk/internal/page"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// handlePersonnelList shows the roster. Every rendered profile is also
// seeded into the session hand-off store so that opening a detail page
// from the list needs no extra fetch.
func (s *Server) handlePersonnelList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFrom(ctx)

	list, err := s.personnel.List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("personnel list failed")
		s.render(w, r, http.StatusBadGateway, "personnel_list.html", "personnel_list", viewData{
			Title:   "Personnel",
			Session: session,
			Phase:   page.PhaseError,
			Error:   "Could not load the personnel list.",
		})
		return
	}

	if session != nil {
		for i := range list {
			if err := s.store.PutHandoff(ctx, session.ID, &list[i]); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("personnel_id", list[i].ID).Msg("handoff seed failed")
			}
		}
	}

	s.render(w, r, http.StatusOK, "personnel_list.html", "personnel_list", viewData{
		Title:     "Personnel",
		Session:   session,
		Personnel: list,
	})
}

// handlePersonnelDetail renders one profile. The hand-off record from
// the list page short-circuits the fetch; a cold visit (bookmark,
// reload) resolves with exactly one backend call.
func (s *Server) handlePersonnelDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFrom(ctx)
	personnelID := chi.URLParam(r, "personnelID")

	m := page.New()
	var profile *models.PersonnelProfile

	if session != nil {
		if p, err := s.store.TakeHandoff(ctx, session.ID, personnelID); err == nil && p != nil {
			profile = p
			_ = m.ResolveFromHandoff()
		}
	}

	if profile == nil {
		err := m.Resolve(ctx, func(ctx context.Context) error {
			p, err := s.personnel.Profile(ctx, personnelID)
			if err != nil {
				return err
			}
			profile = p
			return nil
		})
		if err != nil {
			status := http.StatusBadGateway
			msg := "Could not load this profile."
			if errors.Is(err, backend.ErrNotFound) {
				status = http.StatusNotFound
				msg = "This personnel record does not exist."
			}
			zerolog.Ctx(ctx).Error().Err(err).Str("personnel_id", personnelID).Msg("profile resolve failed")
			s.render(w, r, status, "personnel_detail.html", "personnel_detail", viewData{
				Title:   "Personnel profile",
				Session: session,
				Phase:   m.Phase(),
				Error:   msg,
			})
			return
		}
	}

	s.render(w, r, http.StatusOK, "personnel_detail.html", "personnel_detail", viewData{
		Title:   profile.FullName(),
		Session: session,
		Phase:   m.Phase(),
		Profile: profile,
	})
}

// handleAssignPage loads the approved applications and renders the
// assignment form for one personnel member.
func (s *Server) handleAssignPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFrom(ctx)
	personnelID := chi.URLParam(r, "personnelID")

	token, m := s.newPageMachine()

	var apps []models.CarwashApplication
	err := m.Resolve(ctx, func(ctx context.Context) error {
		var err error
		apps, err = s.personnel.Applications(ctx)
		return err
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("applications resolve failed")
		s.releasePage(token)
		s.render(w, r, http.StatusBadGateway, "assign.html", "assign", viewData{
			Title:       "Assign personnel",
			Session:     session,
			Phase:       m.Phase(),
			Error:       "Could not load the approved applications.",
			PersonnelID: personnelID,
		})
		return
	}

	s.render(w, r, http.StatusOK, "assign.html", "assign", viewData{
		Title:        "Assign personnel",
		Session:      session,
		Phase:        m.Phase(),
		PageToken:    token,
		PersonnelID:  personnelID,
		Applications: apps,
	})
}

func (s *Server) handleAssignSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFrom(ctx)
	personnelID := chi.URLParam(r, "personnelID")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	token := r.PostFormValue("page_token")
	m := s.pageMachine(token)

	assignment := models.PersonnelAssignment{
		PersonnelID:   personnelID,
		AppointmentID: r.PostFormValue("appointment_id"),
	}

	// The happy path issues no read at all; only a re-render of the
	// form needs the appointment options back, and a failed reload is
	// shown instead of an empty select.
	renderForm := func(status int, errMsg string) {
		apps, err := s.personnel.Applications(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("applications reload failed")
			s.render(w, r, http.StatusBadGateway, "assign.html", "assign", viewData{
				Title:       "Assign personnel",
				Session:     session,
				Phase:       page.PhaseError,
				Error:       "Could not load the approved applications.",
				PersonnelID: personnelID,
			})
			return
		}
		s.render(w, r, status, "assign.html", "assign", viewData{
			Title:               "Assign personnel",
			Session:             session,
			Phase:               page.PhaseReady,
			Error:               errMsg,
			PageToken:           token,
			PersonnelID:         personnelID,
			Applications:        apps,
			SelectedAppointment: assignment.AppointmentID,
		})
	}

	// Incomplete selection: re-render the form, nothing is sent
	if len(s.personnel.MissingFields(assignment)) > 0 {
		metrics.IncSubmission("assign", "validation")
		renderForm(http.StatusUnprocessableEntity, "Pick an appointment first.")
		return
	}

	assignedBy := ""
	if session != nil {
		assignedBy = session.OwnerID
	}

	err := m.Submit(ctx, func(ctx context.Context) error {
		return s.personnel.Assign(ctx, assignment, "", assignedBy)
	})
	switch {
	case errors.Is(err, page.ErrSubmitInFlight), errors.Is(err, page.ErrNotReady):
		metrics.IncSubmission("assign", "duplicate")
		renderForm(http.StatusConflict, "This assignment is already being submitted.")
		return
	case err != nil:
		metrics.IncSubmission("assign", "error")
		zerolog.Ctx(ctx).Error().Err(err).
			Str("personnel_id", assignment.PersonnelID).
			Str("appointment_id", assignment.AppointmentID).
			Msg("assignment submit failed")
		renderForm(http.StatusBadGateway, "Could not save the assignment, try again.")
		return
	}

	metrics.IncSubmission("assign", "success")
	s.releasePage(token)
	http.Redirect(w, r, "/personnel", http.StatusSeeOther)
}

// handleRosterExport streams the approved applications as an xlsx
// workbook, one sheet per carwash.
func (s *Server) handleRosterExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := s.personnel.Applications(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("export fetch failed")
		http.Error(w, "could not load applications", http.StatusBadGateway)
		return
	}

	buf, err := export.RosterWorkbook(apps, s.exports.SheetPrefix)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("workbook build failed")
		http.Error(w, "could not build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(time.Now())))
	if _, err := w.Write(buf.Bytes()); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("export write failed")
	}
}
