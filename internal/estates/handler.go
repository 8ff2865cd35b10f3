package estates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Lelo88/isuumo-api-golang/internal/httpx"
	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

// ServiceAPI define lo que el handler necesita.
type ServiceAPI interface {
	Search(ctx context.Context, values url.Values) (SearchResult, error)
	LowPriced(ctx context.Context) ([]Estate, error)
	Recommended(ctx context.Context) ([]Estate, error)
	Get(ctx context.Context, id int64) (Estate, error)
	RecommendForChair(ctx context.Context, chairID int64) ([]Estate, error)
	RequestDocument(ctx context.Context, id int64, request DocumentRequest) error
	Condition() search.EstateCondition
}

// Handler HTTP para inmuebles.
type Handler struct {
	service ServiceAPI
	logger  *zap.Logger
}

// NewHandler crea un handler de inmuebles.
func NewHandler(service ServiceAPI, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Search maneja GET /api/estate/search.
func (handler *Handler) Search(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Search(request.Context(), request.URL.Query())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

// SearchCondition maneja GET /api/estate/search/condition.
func (handler *Handler) SearchCondition(writer http.ResponseWriter, request *http.Request) {
	httpx.OK(writer, request, http.StatusOK, handler.service.Condition())
}

// LowPriced maneja GET /api/estate/low_priced.
func (handler *Handler) LowPriced(writer http.ResponseWriter, request *http.Request) {
	estates, err := handler.service.LowPriced(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, ListResult{Estates: estates})
}

// Recommended maneja GET /api/recommended_estate.
func (handler *Handler) Recommended(writer http.ResponseWriter, request *http.Request) {
	estates, err := handler.service.Recommended(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, ListResult{Estates: estates})
}

// RecommendedForChair maneja GET /api/recommended_estate/{chairId}.
func (handler *Handler) RecommendedForChair(writer http.ResponseWriter, request *http.Request) {
	chairID, err := httpx.IDParam(request, "chairId")
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	estates, err := handler.service.RecommendForChair(request.Context(), chairID)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, ListResult{Estates: estates})
}

// Get maneja GET /api/estate/{id}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	id, err := httpx.IDParam(request, "id")
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	estate, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, estate)
}

// RequestDocument maneja POST /api/estate/req_doc/{id}.
func (handler *Handler) RequestDocument(writer http.ResponseWriter, request *http.Request) {
	id, err := httpx.IDParam(request, "id")
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	var documentRequest DocumentRequest
	if err := json.NewDecoder(request.Body).Decode(&documentRequest); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	if err := handler.service.RequestDocument(request.Context(), id, documentRequest); err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, map[string]bool{"ok": true})
}

func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	requestID := zap.String("request_id", httpx.RequestIDFrom(request))

	var validation *search.ValidationError
	switch {
	case errors.As(err, &validation):
		handler.logger.Info("estate request rejected", requestID, zap.Error(err))
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", validation.Error())
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "estate not found")
	default:
		handler.logger.Error("estate request failed", requestID, zap.Error(err))
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
