package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/middleware"
	"github.com/Ozeirr/ai-chatbot-platform/internal/api/response"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
)

// DocumentHandler handles document endpoints
type DocumentHandler struct {
	documentService *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Create handles document creation. Ingestion runs in the background; the
// response carries the document with an empty vector ID.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.DocumentCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	doc, err := h.documentService.Create(r.Context(), client.ID, input)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, doc)
}

// List handles listing the client's documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, offset := pagination(r)

	docs, err := h.documentService.List(r.Context(), client.ID, limit, offset)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, docs)
}

// Get handles getting a document by ID
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	docID, ok := parseID(w, r, "documentID")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(r.Context(), client.ID, docID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "document not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, doc)
}

// Update handles updating a document
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	docID, ok := parseID(w, r, "documentID")
	if !ok {
		return
	}

	var input domain.DocumentUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	doc, err := h.documentService.Update(r.Context(), client.ID, docID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "document not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, doc)
}

// Delete handles deleting a document
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	docID, ok := parseID(w, r, "documentID")
	if !ok {
		return
	}

	if err := h.documentService.Delete(r.Context(), client.ID, docID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "document not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.NoContent(w)
}
