package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/GoArmGo/UserDirectory/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes ограничивает размер тела запроса на создание/обновление
const maxBodyBytes = 1 << 20

// ErrorResponse — тело ответа с ошибкой. Fields есть только у ошибок валидации.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// UserHandler — обработчик HTTP-запросов для работы с пользователями.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: uc,
		logger:      logger,
	}
}

// Routes возвращает роутер с CRUD-маршрутами; монтируется под /api/users и /users.
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Put("/{id}", h.UpdateUser)
	r.Delete("/{id}", h.DeleteUser)
	return r
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, ErrorResponse{Error: message}, logger)
}

// respondWithUseCaseError переводит ошибку бизнес-логики в HTTP-ответ.
// Детали внутренних ошибок остаются только в логе.
func (h *UserHandler) respondWithUseCaseError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		h.logger.Info("validation failed", "op", op, "fields", ve.Fields)
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: domain.ErrValidation.Error(), Fields: ve.Fields}, h.logger)
	case errors.Is(err, domain.ErrEmailTaken):
		fields, _ := domain.FieldErrors(err)
		h.logger.Info("email conflict", "op", op)
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: domain.ErrEmailTaken.Error(), Fields: fields}, h.logger)
	case errors.Is(err, domain.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, domain.ErrUserNotFound.Error(), h.logger)
	default:
		h.logger.Error("request failed", "op", op, "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error", h.logger)
	}
}

// ListUsers — GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUseCase.ListUsers(r.Context())
	if err != nil {
		h.respondWithUseCaseError(w, r, "list", err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	respondWithJSON(w, http.StatusOK, users, h.logger)
}

// CreateUser — POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input domain.UserInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	user, err := h.userUseCase.CreateUser(r.Context(), input)
	if err != nil {
		h.respondWithUseCaseError(w, r, "create", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user, h.logger)
}

// UpdateUser — PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var patch domain.UserPatch
	if !h.decodeBody(w, r, &patch) {
		return
	}

	user, err := h.userUseCase.UpdateUser(r.Context(), id, patch)
	if err != nil {
		h.respondWithUseCaseError(w, r, "update", err)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// DeleteUser — DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.userUseCase.DeleteUser(r.Context(), id); err != nil {
		h.respondWithUseCaseError(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userID разбирает {id}. Нечисловой id не может совпасть ни с одной записью, поэтому 404.
func (h *UserHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Info("unparsable user id", "id", raw)
		respondWithError(w, http.StatusNotFound, domain.ErrUserNotFound.Error(), h.logger)
		return 0, false
	}
	return id, true
}

func (h *UserHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Info("invalid request body", "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return false
	}
	return true
}
