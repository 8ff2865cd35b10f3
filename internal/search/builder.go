package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Query es el resultado del builder: un WHERE parametrizado y sus argumentos.
// Los valores nunca se interpolan en el SQL, siempre van como $n.
type Query struct {
	Where string
	Args  []any
}

// Paginate agrega LIMIT/OFFSET a continuación de los argumentos del filtro.
// Devuelve el fragmento SQL y una copia nueva de los argumentos.
func (query Query) Paginate(page Page) (string, []any) {
	args := make([]any, 0, len(query.Args)+2)
	args = append(args, query.Args...)
	args = append(args, page.PerPage, page.Offset())

	clause := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return clause, args
}

// Builder acumula predicados y argumentos de una sola request.
type Builder struct {
	conditions []string
	args       []any
}

// NewBuilder crea un builder vacío.
func NewBuilder() *Builder {
	return &Builder{}
}

// add registra un predicado; template recibe el número de placeholder con %d.
func (builder *Builder) add(template string, value any) {
	builder.args = append(builder.args, value)
	builder.conditions = append(builder.conditions, fmt.Sprintf(template, len(builder.args)))
}

// Range traduce un id de bucket a column >= min y/o column < max.
// rawID vacío significa que el filtro no vino.
func (builder *Builder) Range(field, column string, condition RangeCondition, rawID string) error {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return nil
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return invalid(field, "invalid range id")
	}

	bucket, ok := condition.Find(id)
	if !ok {
		return invalid(field, "invalid range id")
	}

	if bucket.Min != Unbounded {
		builder.add(column+" >= $%d", bucket.Min)
	}
	if bucket.Max != Unbounded {
		builder.add(column+" < $%d", bucket.Max)
	}
	return nil
}

// Equal agrega column = value si value no está vacío.
func (builder *Builder) Equal(column, value string) {
	if value == "" {
		return
	}
	builder.add(column+" = $%d", value)
}

// Features agrega un match por substring por cada feature pedida (AND entre todas).
// strpos no interpreta % ni _ del token.
func (builder *Builder) Features(column, raw string) {
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		builder.add("strpos("+column+", $%d::text) > 0", token)
	}
}

// Len devuelve cuántos predicados se generaron.
func (builder *Builder) Len() int {
	return len(builder.conditions)
}

// Build falla si no hay ningún predicado de usuario.
// fixed se agrega al final y no cuenta como condición de búsqueda.
func (builder *Builder) Build(fixed ...string) (Query, error) {
	if len(builder.conditions) == 0 {
		return Query{}, invalid("", "no search condition")
	}

	conditions := make([]string, 0, len(builder.conditions)+len(fixed))
	conditions = append(conditions, builder.conditions...)
	conditions = append(conditions, fixed...)

	args := make([]any, len(builder.args))
	copy(args, builder.args)

	return Query{
		Where: strings.Join(conditions, " AND "),
		Args:  args,
	}, nil
}
