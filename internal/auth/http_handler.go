package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

type RegisterReq struct {
	Username string `json:"username" validate:"required,notblank,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResp struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type loginResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
}

// Register handles POST /api/auth/register
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.ValidationFailed(w, r, validationErrors)
		return
	}

	res, err := h.service.Register(r.Context(), RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			httpx.Conflict(w, r, "Username or email already exists")
			return
		}
		h.log.Error("register failed", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.InternalError(w, r)
		return
	}

	h.log.Info("user registered", zap.String("username", res.Username))
	httpx.JSONSuccessCreated(w, r, registerResp{
		Username:  res.Username,
		Email:     res.Email,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// Login handles POST /api/auth/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.BadRequest(w, r, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.ValidationFailed(w, r, validationErrors)
		return
	}

	res, err := h.service.Login(r.Context(), LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.Unauthorized(w, r, "Invalid username or password")
			return
		}
		h.log.Error("login failed", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.InternalError(w, r)
		return
	}

	httpx.JSONSuccess(w, r, loginResp{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Username:  res.Username,
		Email:     res.Email,
	}, nil)
}
