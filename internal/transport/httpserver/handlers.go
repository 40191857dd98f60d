package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flpflJ/crypto-chat/config"
	"github.com/flpflJ/crypto-chat/internal/chat"
	"github.com/flpflJ/crypto-chat/internal/chat/registry"
	"github.com/flpflJ/crypto-chat/internal/transport/ws"
	"github.com/flpflJ/crypto-chat/internal/user"
	"github.com/flpflJ/crypto-chat/pkg/errors"
	"github.com/flpflJ/crypto-chat/pkg/logger"
)

type Handlers struct {
	userUC   user.UserUsecase
	chatUC   chat.ChatUsecase
	registry *registry.Registry
	cfg      config.Config
	logger   logger.Logger
}

func NewHandlers(userUC user.UserUsecase, chatUC chat.ChatUsecase, reg *registry.Registry, cfg config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		userUC:   userUC,
		chatUC:   chatUC,
		registry: reg,
		cfg:      cfg,
		logger:   log,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var cmd user.RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.writeError(w, errors.InvalidArg("invalid request body"))
		return
	}

	if _, err := h.userUC.Register(r.Context(), cmd); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "ok"})
}

// Token keeps the original OAuth2 password-form contract.
func (h *Handlers) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, errors.InvalidArg("invalid form body"))
		return
	}

	resp, err := h.userUC.Login(r.Context(), user.LoginCommand{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) SavePubKey(w http.ResponseWriter, r *http.Request) {
	var cmd user.SavePublicKeyCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.writeError(w, errors.InvalidArg("invalid request body"))
		return
	}

	if err := h.userUC.SavePublicKey(r.Context(), identityFrom(r.Context()), cmd); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "pubkey saved"})
}

func (h *Handlers) PublicKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.userUC.PublicKeys(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, keys)
}

func (h *Handlers) Users(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.userUC.ListContacts(r.Context(), identityFrom(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, contacts)
}

func (h *Handlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	withUser := chi.URLParam(r, "with_user")

	messages, err := h.chatUC.History(r.Context(), identityFrom(r.Context()), withUser)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]chat.MessageDTO{"messages": messages})
}

func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var cmd chat.SendMessageCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.writeError(w, errors.InvalidArg("invalid request body"))
		return
	}

	if _, err := h.chatUC.Send(r.Context(), identityFrom(r.Context()), cmd); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"msg": "stored"})
}

func (h *Handlers) WS(w http.ResponseWriter, r *http.Request) {
	ws.ServeWs(h.registry, h.chatUC, h.cfg, h.logger, w, r)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "err", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var app *errors.AppError
	if !errors.As(err, &app) {
		app = &errors.AppError{Code: errors.CodeInternal, Message: "internal server error"}
	}

	status := statusFor(app.Code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "code", app.Code, "err", err)
	}
	h.writeJSON(w, status, app)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.CodeInvalidArgument, errors.CodeAlreadyExists, errors.CodeFailedPrecondition:
		return http.StatusBadRequest
	case errors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case errors.CodePermissionDenied:
		return http.StatusForbidden
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
