package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"masthead/internal/accounts"
	"masthead/internal/config"
	"masthead/internal/header"
	"masthead/internal/http/middleware"
	"masthead/internal/logging"
	"masthead/internal/metrics"
	"masthead/internal/session"
	"masthead/internal/uistate"
	"masthead/internal/web"
)

const (
	headerActionPath = header.ActionPath
	signOutPath      = "/signout"
)

// Site carries what every handler needs to render a page with its header.
type Site struct {
	Header        config.HeaderConfig
	Nav           header.Nav
	TPL           *web.Renderer
	Accounts      accounts.Store
	States        uistate.Store
	Sessions      *session.Manager
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	SecureCookies bool
}

// route describes the page being rendered, before theming.
type route struct {
	path       string
	isIndex    bool
	categoryID string
}

func (s *Site) props(r *http.Request, rt route) (header.Props, error) {
	p, err := s.Header.ThemeFor(rt.path).Props()
	if err != nil {
		return header.Props{}, err
	}
	p.PathName = rt.path
	p.IsIndex = rt.isIndex
	p.CategoryID = rt.categoryID
	p.Authenticated = middleware.AccountID(r) != ""
	p.SignOutAction = signOutPath
	return header.New(p)
}

// headerFor applies the navigation rule to the visitor's header state
// against the previously rendered path and records this page as the new one.
func (s *Site) headerFor(r *http.Request, rt route) (header.View, error) {
	ctx := r.Context()
	p, err := s.props(r, rt)
	if err != nil {
		return header.View{}, err
	}

	var state header.State
	if vid := session.VisitorID(ctx); vid != "" {
		var autoClosed bool
		rec, err := s.States.Update(ctx, vid, func(rec uistate.Record) uistate.Record {
			next := header.Sync(header.Props{PathName: rec.PrevPath}, p, rec.State)
			autoClosed = rec.State.CategoriesOpen && !next.CategoriesOpen
			return uistate.Record{State: next, PrevPath: p.PathName}
		})
		if err != nil {
			logging.From(ctx).Warn("header.state_update", "err", err)
		} else {
			state = rec.State
			if autoClosed {
				s.Metrics.CategoriesAutoClosed()
			}
		}
	}
	return s.build(r, p, state), nil
}

// peekHeader renders the header from the stored state without treating the
// request as navigation. Error pages use it so that stray requests such as
// /favicon.ico leave the visitor's menus alone.
func (s *Site) peekHeader(r *http.Request, rt route) (header.View, error) {
	p, err := s.props(r, rt)
	if err != nil {
		return header.View{}, err
	}
	rec := s.loadState(r.Context(), session.VisitorID(r.Context()))
	return s.build(r, p, rec.State), nil
}

func (s *Site) build(r *http.Request, p header.Props, st header.State) header.View {
	v := header.Build(p, st, s.Nav)
	v.ReturnTo = localPath(r.URL.RequestURI())
	return v
}

// loadState falls back to the initial state when the store fails.
func (s *Site) loadState(ctx context.Context, vid string) uistate.Record {
	if vid == "" {
		return uistate.Record{}
	}
	rec, err := s.States.Load(ctx, vid)
	if err != nil {
		logging.From(ctx).Warn("header.state_load", "err", err)
		return uistate.Record{}
	}
	return rec
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.TPL.Render(&buf, name, data); err != nil {
		logging.From(r.Context()).Error("render", "page", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
