package estates

// Estate es la representación de dominio de un inmueble.
type Estate struct {
	ID          int64   `json:"id"`
	Thumbnail   string  `json:"thumbnail"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
	Rent        int64   `json:"rent"`
	DoorHeight  int64   `json:"doorHeight"`
	DoorWidth   int64   `json:"doorWidth"`
	Features    string  `json:"features"`
	Popularity  int64   `json:"-"`
}

// SearchResult es la respuesta de /api/estate/search.
type SearchResult struct {
	Count   int64    `json:"count"`
	Estates []Estate `json:"estates"`
}

// ListResult es la respuesta de los listados fijos.
type ListResult struct {
	Estates []Estate `json:"estates"`
}

// ChairSize son las medidas de la silla que tiene que pasar por la puerta.
type ChairSize struct {
	Width  int64
	Height int64
	Depth  int64
}

// DocumentRequest es el body de POST /api/estate/req_doc/{id}.
type DocumentRequest struct {
	Email string `json:"email"`
}
