package search

import "net/url"

// Conditions arma las queries de búsqueda a partir de los parámetros HTTP
// y del fixture de rangos que recibe al construirse.
type Conditions struct {
	fixture Fixture
}

// NewConditions crea el builder de condiciones para un fixture dado.
func NewConditions(fixture Fixture) *Conditions {
	return &Conditions{fixture: fixture}
}

// Fixture devuelve el fixture con el que se construyó.
func (conditions *Conditions) Fixture() Fixture {
	return conditions.fixture
}

// Chair arma la query de /api/chair/search.
// stock > 0 siempre va al final y no es controlable por el usuario.
func (conditions *Conditions) Chair(values url.Values) (Query, error) {
	chair := conditions.fixture.Chair
	builder := NewBuilder()

	ranges := []struct {
		field     string
		column    string
		condition RangeCondition
	}{
		{"priceRangeId", "price", chair.Price},
		{"heightRangeId", "height", chair.Height},
		{"widthRangeId", "width", chair.Width},
		{"depthRangeId", "depth", chair.Depth},
	}
	for _, dimension := range ranges {
		if err := builder.Range(dimension.field, dimension.column, dimension.condition, values.Get(dimension.field)); err != nil {
			return Query{}, err
		}
	}

	builder.Equal("kind", values.Get("kind"))
	builder.Equal("color", values.Get("color"))
	builder.Features("features", values.Get("features"))

	return builder.Build("stock > 0")
}

// Estate arma la query de /api/estate/search.
func (conditions *Conditions) Estate(values url.Values) (Query, error) {
	estate := conditions.fixture.Estate
	builder := NewBuilder()

	ranges := []struct {
		field     string
		column    string
		condition RangeCondition
	}{
		{"doorHeightRangeId", "door_height", estate.DoorHeight},
		{"doorWidthRangeId", "door_width", estate.DoorWidth},
		{"rentRangeId", "rent", estate.Rent},
	}
	for _, dimension := range ranges {
		if err := builder.Range(dimension.field, dimension.column, dimension.condition, values.Get(dimension.field)); err != nil {
			return Query{}, err
		}
	}

	builder.Features("features", values.Get("features"))

	return builder.Build()
}
