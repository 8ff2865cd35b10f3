package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

var errInvalidID = errors.New("id must be a positive integer")

// IDParam parsea un parámetro de ruta como id entero positivo.
func IDParam(request *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, key), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}
