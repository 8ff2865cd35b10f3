package estates

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

// Errores de dominio. El handler los traduce a status codes.
var (
	ErrorNotFound      = errors.New("estate not found")
	ErrorChairNotFound = errors.New("chair not found")
)

// ListLimit es el tamaño de los listados fijos y de la recomendación.
const ListLimit = 20

// RepositoryAPI define lo que el service necesita del repositorio.
type RepositoryAPI interface {
	Count(ctx context.Context, query search.Query) (int64, error)
	Search(ctx context.Context, query search.Query, page search.Page) ([]Estate, error)
	LowPriced(ctx context.Context, limit int) ([]Estate, error)
	Popular(ctx context.Context, limit int) ([]Estate, error)
	Get(ctx context.Context, id int64) (Estate, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ChairSize(ctx context.Context, chairID int64) (ChairSize, error)
	FitsChair(ctx context.Context, size ChairSize, limit int) ([]Estate, error)
}

// Service contiene las reglas de negocio de inmuebles.
type Service struct {
	repository RepositoryAPI
	conditions *search.Conditions
}

// NewService crea un service de inmuebles.
func NewService(repository RepositoryAPI, conditions *search.Conditions) *Service {
	return &Service{repository: repository, conditions: conditions}
}

// Search valida filtros y paginación, y corre count y página en paralelo.
func (service *Service) Search(ctx context.Context, values url.Values) (SearchResult, error) {
	query, err := service.conditions.Estate(values)
	if err != nil {
		return SearchResult{}, err
	}
	page, err := search.ParsePage(values)
	if err != nil {
		return SearchResult{}, err
	}

	var (
		count   int64
		estates []Estate
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		count, err = service.repository.Count(groupCtx, query)
		return err
	})
	group.Go(func() error {
		var err error
		estates, err = service.repository.Search(groupCtx, query, page)
		return err
	})
	if err := group.Wait(); err != nil {
		return SearchResult{}, err
	}

	return SearchResult{Count: count, Estates: estates}, nil
}

func (service *Service) LowPriced(ctx context.Context) ([]Estate, error) {
	return service.repository.LowPriced(ctx, ListLimit)
}

func (service *Service) Recommended(ctx context.Context) ([]Estate, error) {
	return service.repository.Popular(ctx, ListLimit)
}

func (service *Service) Get(ctx context.Context, id int64) (Estate, error) {
	return service.repository.Get(ctx, id)
}

// RecommendForChair busca inmuebles por los que entra la silla.
// Una silla inexistente es un parámetro inválido, no un 404.
func (service *Service) RecommendForChair(ctx context.Context, chairID int64) ([]Estate, error) {
	size, err := service.repository.ChairSize(ctx, chairID)
	if err != nil {
		if errors.Is(err, ErrorChairNotFound) {
			return nil, &search.ValidationError{Field: "chairId", Reason: "chair not found"}
		}
		return nil, err
	}
	return service.repository.FitsChair(ctx, size, ListLimit)
}

// RequestDocument registra un pedido de documentación.
// El envío de mails queda fuera; solo se valida el pedido.
func (service *Service) RequestDocument(ctx context.Context, id int64, request DocumentRequest) error {
	email := strings.TrimSpace(request.Email)
	if email == "" {
		return &search.ValidationError{Field: "email", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &search.ValidationError{Field: "email", Reason: "must be a valid address"}
	}

	exists, err := service.repository.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrorNotFound
	}
	return nil
}

// Condition devuelve los rangos de búsqueda de inmuebles.
func (service *Service) Condition() search.EstateCondition {
	return service.conditions.Fixture().Estate
}
