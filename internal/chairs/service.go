package chairs

import (
	"context"
	"errors"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/Lelo88/isuumo-api-golang/internal/search"
)

// ErrorNotFound indica una silla inexistente o sin stock.
var ErrorNotFound = errors.New("chair not found")

// ListLimit es el tamaño de los listados fijos.
const ListLimit = 20

// RepositoryAPI define lo que el service necesita del repositorio.
type RepositoryAPI interface {
	Count(ctx context.Context, query search.Query) (int64, error)
	Search(ctx context.Context, query search.Query, page search.Page) ([]Chair, error)
	LowPriced(ctx context.Context, limit int) ([]Chair, error)
	Popular(ctx context.Context, limit int) ([]Chair, error)
	GetAvailable(ctx context.Context, id int64) (Chair, error)
	Buy(ctx context.Context, id int64) error
}

// Service contiene las reglas de negocio de sillas.
type Service struct {
	repository RepositoryAPI
	conditions *search.Conditions
}

// NewService crea un service de sillas.
func NewService(repository RepositoryAPI, conditions *search.Conditions) *Service {
	return &Service{repository: repository, conditions: conditions}
}

// Search valida los filtros antes de tocar la DB y corre count y página en paralelo.
func (service *Service) Search(ctx context.Context, values url.Values) (SearchResult, error) {
	query, err := service.conditions.Chair(values)
	if err != nil {
		return SearchResult{}, err
	}
	page, err := search.ParsePage(values)
	if err != nil {
		return SearchResult{}, err
	}

	var (
		count  int64
		chairs []Chair
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		count, err = service.repository.Count(groupCtx, query)
		return err
	})
	group.Go(func() error {
		var err error
		chairs, err = service.repository.Search(groupCtx, query, page)
		return err
	})
	if err := group.Wait(); err != nil {
		return SearchResult{}, err
	}

	return SearchResult{Count: count, Chairs: chairs}, nil
}

// LowPriced devuelve las ListLimit sillas más baratas con stock.
func (service *Service) LowPriced(ctx context.Context) ([]Chair, error) {
	return service.repository.LowPriced(ctx, ListLimit)
}

// Recommended devuelve las ListLimit sillas más populares con stock.
func (service *Service) Recommended(ctx context.Context) ([]Chair, error) {
	return service.repository.Popular(ctx, ListLimit)
}

// Get obtiene una silla disponible por ID.
func (service *Service) Get(ctx context.Context, id int64) (Chair, error) {
	return service.repository.GetAvailable(ctx, id)
}

// Buy compra una unidad de la silla.
func (service *Service) Buy(ctx context.Context, id int64) error {
	return service.repository.Buy(ctx, id)
}

// Condition devuelve los rangos de búsqueda de sillas.
func (service *Service) Condition() search.ChairCondition {
	return service.conditions.Fixture().Chair
}
