package handler

import (
	"errors"
	"net/http"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/response"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
)

// CrawlHandler handles website crawl endpoints
type CrawlHandler struct {
	crawlService *service.CrawlService
}

// NewCrawlHandler creates a new crawl handler
func NewCrawlHandler(crawlService *service.CrawlService) *CrawlHandler {
	return &CrawlHandler{crawlService: crawlService}
}

// Start handles kicking off a crawl. The URL comes from the query string and
// falls back to the client's registered website URL.
func (h *CrawlHandler) Start(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(w, r, "clientID")
	if !ok {
		return
	}

	job, err := h.crawlService.Start(r.Context(), clientID, r.URL.Query().Get("url"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "client not found")
			return
		}
		if errors.Is(err, service.ErrNoCrawlURL) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, job)
}

// GetJob handles getting a crawl job by ID
func (h *CrawlHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(w, r, "clientID")
	if !ok {
		return
	}

	jobID, ok := parseID(w, r, "jobID")
	if !ok {
		return
	}

	job, err := h.crawlService.GetJob(r.Context(), clientID, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "crawl job not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, job)
}

// ListJobs handles listing a client's crawl jobs, newest first
func (h *CrawlHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseID(w, r, "clientID")
	if !ok {
		return
	}

	jobs, err := h.crawlService.ListJobs(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "client not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, jobs)
}
