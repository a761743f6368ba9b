package http

import (
	"net/http"

	"masthead/internal/header"
	"masthead/internal/logging"
	"masthead/internal/web"
)

type homeContent struct {
	Headline string
	Sections []header.Link
}

type sectionContent struct {
	Heading string
	Intro   string
}

type notFoundContent struct {
	Path string
}

type HomeHandler struct {
	Site *Site
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.Site.headerFor(r, route{path: "/", isIndex: true})
	if err != nil {
		h.Site.fail(w, r, err)
		return
	}
	page := web.Page[homeContent]{
		Header: view,
		Content: homeContent{
			Headline: "In-depth reporting, independently funded",
			Sections: h.Site.Nav.ChannelLinks("/"),
		},
	}
	h.Site.render(w, r, http.StatusOK, "home", page)
}

// SectionHandler serves a channel such as /topics and every page below it.
type SectionHandler struct {
	Site    *Site
	Channel header.Channel
}

func (h *SectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.Site.headerFor(r, route{path: r.URL.Path})
	if err != nil {
		h.Site.fail(w, r, err)
		return
	}
	page := web.Page[sectionContent]{
		Title:   h.Channel.Label,
		Header:  view,
		Content: sectionContent{Heading: h.Channel.Label},
	}
	h.Site.render(w, r, http.StatusOK, "section", page)
}

type CategoryHandler struct {
	Site *Site
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.Site.Nav.Category(r.PathValue("id"))
	if !ok {
		h.Site.notFound(w, r)
		return
	}
	view, err := h.Site.headerFor(r, route{path: r.URL.Path, categoryID: cat.ID})
	if err != nil {
		h.Site.fail(w, r, err)
		return
	}
	page := web.Page[sectionContent]{
		Title:   cat.Label,
		Header:  view,
		Content: sectionContent{Heading: cat.Label},
	}
	h.Site.render(w, r, http.StatusOK, "section", page)
}

type SearchHandler struct {
	Site *Site
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.Site.headerFor(r, route{path: r.URL.Path})
	if err != nil {
		h.Site.fail(w, r, err)
		return
	}
	content := sectionContent{Heading: "Search"}
	if q := r.URL.Query().Get("q"); q != "" {
		content.Intro = "No results for " + q + "."
	}
	h.Site.render(w, r, http.StatusOK, "section", web.Page[sectionContent]{Title: "Search", Header: view, Content: content})
}

type NotFoundHandler struct {
	Site *Site
}

func (h *NotFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Site.notFound(w, r)
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	view, err := s.peekHeader(r, route{path: r.URL.Path})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page := web.Page[notFoundContent]{
		Title:   "Not found",
		Header:  view,
		Content: notFoundContent{Path: r.URL.Path},
	}
	s.render(w, r, http.StatusNotFound, "not_found", page)
}

func (s *Site) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.From(r.Context()).Error("page.header", "path", r.URL.Path, "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
