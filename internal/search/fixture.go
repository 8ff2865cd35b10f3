package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Unbounded marca un extremo abierto de un rango.
const Unbounded int64 = -1

const (
	chairFixtureFile  = "chair_condition.json"
	estateFixtureFile = "estate_condition.json"
)

// Range es un bucket [Min, Max) de una dimensión numérica.
type Range struct {
	ID  int64 `json:"id"`
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// RangeCondition agrupa los buckets de una dimensión.
type RangeCondition struct {
	Prefix string  `json:"prefix"`
	Suffix string  `json:"suffix"`
	Ranges []Range `json:"ranges"`
}

// ListCondition lista los valores posibles de una dimensión categórica.
type ListCondition struct {
	List []string `json:"list"`
}

type ChairCondition struct {
	Width   RangeCondition `json:"width"`
	Height  RangeCondition `json:"height"`
	Depth   RangeCondition `json:"depth"`
	Price   RangeCondition `json:"price"`
	Color   ListCondition  `json:"color"`
	Feature ListCondition  `json:"feature"`
	Kind    ListCondition  `json:"kind"`
}

type EstateCondition struct {
	DoorWidth  RangeCondition `json:"doorWidth"`
	DoorHeight RangeCondition `json:"doorHeight"`
	Rent       RangeCondition `json:"rent"`
	Feature    ListCondition  `json:"feature"`
}

// Fixture es la tabla de rangos cargada al arrancar.
// Se trata como valor inmutable: se inyecta, no se modifica.
type Fixture struct {
	Chair  ChairCondition
	Estate EstateCondition
}

// Find busca el bucket por id (no por posición).
func (condition RangeCondition) Find(id int64) (Range, bool) {
	for _, bucket := range condition.Ranges {
		if bucket.ID == id {
			return bucket, true
		}
	}
	return Range{}, false
}

// Validate chequea lo mínimo: ids únicos y min < max cuando ambos están acotados.
func (condition RangeCondition) Validate() error {
	seen := make(map[int64]struct{}, len(condition.Ranges))
	for _, bucket := range condition.Ranges {
		if _, ok := seen[bucket.ID]; ok {
			return fmt.Errorf("duplicate range id %d", bucket.ID)
		}
		seen[bucket.ID] = struct{}{}

		if bucket.Min != Unbounded && bucket.Max != Unbounded && bucket.Min >= bucket.Max {
			return fmt.Errorf("range id %d: min %d must be lower than max %d", bucket.ID, bucket.Min, bucket.Max)
		}
	}
	return nil
}

// LoadFixture lee chair_condition.json y estate_condition.json desde dir.
func LoadFixture(dir string) (Fixture, error) {
	var fixture Fixture

	if err := readJSON(filepath.Join(dir, chairFixtureFile), &fixture.Chair); err != nil {
		return Fixture{}, err
	}
	if err := readJSON(filepath.Join(dir, estateFixtureFile), &fixture.Estate); err != nil {
		return Fixture{}, err
	}

	if err := fixture.Validate(); err != nil {
		return Fixture{}, err
	}
	return fixture, nil
}

// Validate valida todas las dimensiones de rango del fixture.
func (fixture Fixture) Validate() error {
	dimensions := map[string]RangeCondition{
		"chair.width":       fixture.Chair.Width,
		"chair.height":      fixture.Chair.Height,
		"chair.depth":       fixture.Chair.Depth,
		"chair.price":       fixture.Chair.Price,
		"estate.doorWidth":  fixture.Estate.DoorWidth,
		"estate.doorHeight": fixture.Estate.DoorHeight,
		"estate.rent":       fixture.Estate.Rent,
	}
	for name, condition := range dimensions {
		if err := condition.Validate(); err != nil {
			return fmt.Errorf("fixture %s: %w", name, err)
		}
	}
	return nil
}

func readJSON(path string, target any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("decode fixture %s: %w", filepath.Base(path), err)
	}
	return nil
}
