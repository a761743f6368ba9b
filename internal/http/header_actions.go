package http

import (
	"net/http"

	"masthead/internal/header"
	"masthead/internal/logging"
	"masthead/internal/session"
	"masthead/internal/uistate"
)

// HeaderActionHandler applies one header action posted by a form and sends
// the visitor back to the page they were on.
type HeaderActionHandler struct {
	Site *Site
}

func (h *HeaderActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	action, err := header.ParseAction(r.PostForm.Get("action"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.Site.dispatch(w, r, action) {
		return
	}
	http.Redirect(w, r, localPath(r.PostForm.Get("return")), http.StatusSeeOther)
}

// dispatch reduces the visitor's stored state by action. On failure it has
// already written the error response.
func (s *Site) dispatch(w http.ResponseWriter, r *http.Request, action header.Action) bool {
	ctx := r.Context()
	vid := session.VisitorID(ctx)
	if vid == "" {
		http.Error(w, "no visitor session", http.StatusBadRequest)
		return false
	}
	rec, err := s.States.Update(ctx, vid, func(rec uistate.Record) uistate.Record {
		rec.State = header.Reduce(rec.State, action)
		return rec
	})
	if err != nil {
		logging.From(ctx).Error("header.state_update", "err", err)
		http.Error(w, "header state unavailable", http.StatusServiceUnavailable)
		return false
	}
	s.Metrics.HeaderAction(action.String())
	logging.From(ctx).Debug("header.action",
		"action", action.String(),
		"categories_open", rec.State.CategoriesOpen,
		"mobile_panel_open", rec.State.MobilePanelOpen,
	)
	return true
}
