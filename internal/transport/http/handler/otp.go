package handler

import (
	"net/http"
	"time"

	"github.com/petnfc-api/internal/application/otp"
	"github.com/petnfc-api/internal/transport/http/middleware"
)

type sendOTPRequest struct {
	Channel string `json:"channel" validate:"omitempty,oneof=email sms"`
}

type verifyOTPRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type sendOTPResponse struct {
	Message   string `json:"message"`
	Channel   string `json:"channel"`
	ExpiresAt string `json:"expires_at"`
}

type verifyOTPResponse struct {
	Valid bool `json:"valid"`
}

type remainingTimeResponse struct {
	RemainingTime int `json:"remaining_time"`
}

// OTPHandler exposes the one-time password flow for the authenticated caller.
type OTPHandler struct {
	svc otp.Service
}

func NewOTPHandler(svc otp.Service) *OTPHandler { return &OTPHandler{svc: svc} }

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req sendOTPRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	if req.Channel == "" {
		req.Channel = otp.ChannelEmail
	}
	issued, err := h.svc.Send(r.Context(), claims.UserID, req.Channel)
	if err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, sendOTPResponse{
		Message:   "OTP sent",
		Channel:   req.Channel,
		ExpiresAt: issued.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req verifyOTPRequest
	if !decode(w, r, &req) {
		return
	}
	valid, err := h.svc.Verify(r.Context(), claims.UserID, req.OTP)
	if err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyOTPResponse{Valid: valid})
}

func (h *OTPHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if _, err := h.svc.Reset(r.Context(), claims.UserID); err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP reset"})
}

func (h *OTPHandler) RemainingTime(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	secs, err := h.svc.RemainingTime(r.Context(), claims.UserID)
	if err != nil {
		httpError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, remainingTimeResponse{RemainingTime: secs})
}
