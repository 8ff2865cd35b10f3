package db

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Lelo88/isuumo-api-golang/internal/httpx"
)

// Executor es lo que el inicializador necesita del pool.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Initializer ejecuta los scripts *.sql de un directorio en orden lexicográfico.
// Se usa para recrear el schema y cargar datos antes de cada corrida.
type Initializer struct {
	database Executor
	dir      string
}

// NewInitializer crea un inicializador para dir.
func NewInitializer(database Executor, dir string) *Initializer {
	return &Initializer{database: database, dir: dir}
}

// Scripts lista los scripts que Run va a ejecutar.
func (initializer *Initializer) Scripts() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(initializer.dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Run ejecuta cada script completo; el primero que falla corta la corrida.
// Sin argumentos pgx usa el protocolo simple, así que un script puede tener varias sentencias.
func (initializer *Initializer) Run(ctx context.Context) error {
	paths, err := initializer.Scripts()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no sql scripts found in %s", initializer.dir)
	}

	for _, path := range paths {
		script, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if _, err := initializer.database.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("run %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// InitializeHandler maneja POST /initialize.
func InitializeHandler(initializer *Initializer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := initializer.Run(r.Context()); err != nil {
			logger.Error("initialize failed",
				zap.String("request_id", httpx.RequestIDFrom(r)),
				zap.Error(err),
			)
			httpx.Fail(w, r, http.StatusInternalServerError, "internal_error", "initialize failed")
			return
		}
		httpx.OK(w, r, http.StatusOK, map[string]string{"language": "go"})
	}
}
