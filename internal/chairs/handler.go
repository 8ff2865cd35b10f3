package chairs

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Lelo88/isuumo-api-golang/internal/httpx"
	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Search(ctx context.Context, values url.Values) (SearchResult, error)
	LowPriced(ctx context.Context) ([]Chair, error)
	Recommended(ctx context.Context) ([]Chair, error)
	Get(ctx context.Context, id int64) (Chair, error)
	Buy(ctx context.Context, id int64) error
	Condition() search.ChairCondition
}

// Handler HTTP para sillas.
type Handler struct {
	service ServiceAPI
	logger  *zap.Logger
}

// NewHandler crea un handler de sillas.
func NewHandler(service ServiceAPI, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Search maneja GET /api/chair/search.
func (handler *Handler) Search(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Search(request.Context(), request.URL.Query())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, result)
}

// SearchCondition maneja GET /api/chair/search/condition.
func (handler *Handler) SearchCondition(writer http.ResponseWriter, request *http.Request) {
	httpx.OK(writer, request, http.StatusOK, handler.service.Condition())
}

// LowPriced maneja GET /api/chair/low_priced.
func (handler *Handler) LowPriced(writer http.ResponseWriter, request *http.Request) {
	chairs, err := handler.service.LowPriced(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, ListResult{Chairs: chairs})
}

// Recommended maneja GET /api/recommended_chair.
func (handler *Handler) Recommended(writer http.ResponseWriter, request *http.Request) {
	chairs, err := handler.service.Recommended(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, ListResult{Chairs: chairs})
}

// Get maneja GET /api/chair/{id}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	id, err := httpx.IDParam(request, "id")
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	chair, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, chair)
}

// Buy maneja POST /api/chair/buy/{id}. El body se ignora.
func (handler *Handler) Buy(writer http.ResponseWriter, request *http.Request) {
	id, err := httpx.IDParam(request, "id")
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}

	if err := handler.service.Buy(request.Context(), id); err != nil {
		handler.fail(writer, request, err)
		return
	}
	httpx.OK(writer, request, http.StatusOK, map[string]bool{"ok": true})
}

// fail traduce errores de dominio a HTTP.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	requestID := zap.String("request_id", httpx.RequestIDFrom(request))

	var validation *search.ValidationError
	switch {
	case errors.As(err, &validation):
		handler.logger.Info("chair request rejected", requestID, zap.Error(err))
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_input", validation.Error())
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "chair not found")
	default:
		// No filtramos detalles internos.
		handler.logger.Error("chair request failed", requestID, zap.Error(err))
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
