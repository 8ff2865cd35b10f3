package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Page es la paginación de una búsqueda: page arranca en 0.
type Page struct {
	Number  int
	PerPage int
}

// Offset calcula perPage*page.
func (page Page) Offset() int {
	return page.Number * page.PerPage
}

// ParsePage lee page y perPage; ambos son obligatorios.
// Rechaza combinaciones cuyo offset no entra en un int.
func ParsePage(values url.Values) (Page, error) {
	number, err := strconv.Atoi(strings.TrimSpace(values.Get("page")))
	if err != nil || number < 0 {
		return Page{}, invalid("page", "must be a non-negative integer")
	}

	perPage, err := strconv.Atoi(strings.TrimSpace(values.Get("perPage")))
	if err != nil || perPage < 1 {
		return Page{}, invalid("perPage", "must be a positive integer")
	}

	if number > math.MaxInt/perPage {
		return Page{}, invalid("page", "out of range for perPage")
	}

	return Page{Number: number, PerPage: perPage}, nil
}
