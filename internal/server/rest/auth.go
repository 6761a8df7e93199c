package rest

import (
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/common"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var verifyPage = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8" />
    <title>Email Verification</title>
  </head>
  <body style="font-family: Arial, sans-serif; background-color:#f5f6fa;">
    <div style="max-width:500px; margin:4rem auto; background:#ffffff; padding:2rem 3rem; border-radius:0.75rem; text-align:center;">
      <h2 style="color:#333;">{{.Title}}</h2>
      <p style="color:#555;">{{.Message}}</p>
    </div>
  </body>
</html>
`))

type verifyPageData struct {
	Title   string
	Message string
}

func writeHTML(w http.ResponseWriter, status int, data verifyPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = verifyPage.Execute(w, data)
}

// Signup registers an account and triggers the verification mail.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in models.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	if _, err := h.auth.Signup(r.Context(), in); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, detailResponse{Detail: "check your email"})
}

// Verify handles the link from the verification mail and answers with a page.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	err := common.ErrInvalidToken
	if token != "" {
		err = h.auth.Verify(r.Context(), token)
	}
	if err != nil {
		status, msg := statusFor(err, true)
		h.logFailure(r.Context(), status, err)
		writeHTML(w, status, verifyPageData{Title: "Verification failed", Message: msg})
		return
	}

	writeHTML(w, http.StatusOK, verifyPageData{
		Title:   "Email verified",
		Message: "Your account is confirmed. You can sign in now.",
	})
}

// Login checks credentials and sets the access and refresh cookies.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	pair, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	h.setCookie(w, common.AccessTokenCookieName, pair.AccessToken, h.cookies.AccessTTL)
	h.setCookie(w, common.RefreshTokenCookieName, pair.RefreshToken, h.cookies.RefreshTTL)
	writeJSON(w, http.StatusOK, detailResponse{Detail: "signed in"})
}

// Refresh swaps the refresh cookie for a new access cookie.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil || c.Value == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	access, err := h.auth.RefreshAccessToken(r.Context(), c.Value)
	if err != nil {
		h.writeServiceError(r.Context(), w, err)
		return
	}

	h.setCookie(w, common.AccessTokenCookieName, access, h.cookies.AccessTTL)
	writeJSON(w, http.StatusOK, detailResponse{Detail: "access token refreshed"})
}

// Me returns the current account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
