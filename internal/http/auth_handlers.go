package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"masthead/internal/accounts"
	"masthead/internal/auth"
	"masthead/internal/http/middleware"
	"masthead/internal/logging"
	"masthead/internal/web"
)

type AuthHandler struct {
	Site         *Site
	LoginLimiter *middleware.RateLimiter
}

type signinContent struct {
	Email  string
	Return string
	Error  string
}

func (h *AuthHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /signin", h.Form)
	mux.HandleFunc("POST /signin", h.SignIn)
	mux.HandleFunc("POST "+signOutPath, h.SignOut)
}

func (h *AuthHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, signinContent{Return: r.URL.Query().Get("return")})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ip := middleware.ClientIP(r)
	if !h.LoginLimiter.Allow(ip) {
		retry := h.LoginLimiter.RetryAfter(ip)
		w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
		http.Error(w, "too many attempts", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	content := signinContent{
		Email:  strings.TrimSpace(r.PostForm.Get("email")),
		Return: r.PostForm.Get("return"),
	}
	password := r.PostForm.Get("password")
	if content.Email == "" || password == "" {
		content.Error = "Email and password are required."
		h.renderForm(w, r, http.StatusBadRequest, content)
		return
	}

	acc, err := h.Site.Accounts.ByEmail(r.Context(), content.Email)
	if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		logging.From(r.Context()).Error("auth.lookup", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err != nil || !auth.CheckPassword(password, acc.PasswordHash) {
		content.Error = "Wrong email or password."
		h.renderForm(w, r, http.StatusUnauthorized, content)
		return
	}

	token, err := auth.IssueToken(acc.ID)
	if err != nil {
		logging.From(r.Context()).Error("auth.token", "err", err)
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}
	auth.SetCookie(w, token, h.Site.SecureCookies)
	logging.From(r.Context()).Info("auth.signed_in", "account_id", acc.ID)
	http.Redirect(w, r, localPath(content.Return), http.StatusSeeOther)
}

// SignOut is the header's sign-out action.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w, h.Site.SecureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, content signinContent) {
	view, err := h.Site.headerFor(r, route{path: "/signin"})
	if err != nil {
		h.Site.fail(w, r, err)
		return
	}
	h.Site.render(w, r, status, "signin", web.Page[signinContent]{Title: "Sign in", Header: view, Content: content})
}
