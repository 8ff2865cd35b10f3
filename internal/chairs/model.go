package chairs

// Chair es la representación de dominio de una silla.
// Popularity y Stock no se exponen en la API.
type Chair struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Price       int64  `json:"price"`
	Height      int64  `json:"height"`
	Width       int64  `json:"width"`
	Depth       int64  `json:"depth"`
	Color       string `json:"color"`
	Features    string `json:"features"`
	Kind        string `json:"kind"`
	Popularity  int64  `json:"-"`
	Stock       int64  `json:"-"`
}

// SearchResult es la respuesta de /api/chair/search.
type SearchResult struct {
	Count  int64   `json:"count"`
	Chairs []Chair `json:"chairs"`
}

// ListResult es la respuesta de los listados fijos (low_priced, recommended).
type ListResult struct {
	Chairs []Chair `json:"chairs"`
}
