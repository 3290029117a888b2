package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/middleware"
	"github.com/Ozeirr/ai-chatbot-platform/internal/api/response"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// ClientHandler handles client provisioning endpoints
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create handles client provisioning
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ClientCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	client, err := h.clientService.Create(r.Context(), input)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, client)
}

// List handles listing clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	clients, err := h.clientService.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, clients)
}

// Me returns the client owning the presented API key
func (h *ClientHandler) Me(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	response.OK(w, client)
}

// Get handles getting a client by ID
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(w, r, "clientID")
	if !ok {
		return
	}

	client, err := h.clientService.Get(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "client not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, client)
}

// Update handles updating a client
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(w, r, "clientID")
	if !ok {
		return
	}

	var input domain.ClientUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	client, err := h.clientService.Update(r.Context(), clientID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "client not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, client)
}

// Delete handles deleting a client
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(w, r, "clientID")
	if !ok {
		return
	}

	if err := h.clientService.Delete(r.Context(), clientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "client not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.NoContent(w)
}

// parseID parses a UUID path parameter, writing a 400 on failure
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.BadRequest(w, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads skip/limit query parameters with the defaults the
// dashboard expects
func pagination(r *http.Request) (limit, offset int) {
	limit = 100
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
