package config

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (c DBConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func migrationsSource(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// RunMigrations corre todas las migraciones pendientes
func RunMigrations(cfg DBConfig, path string, log *zap.Logger) error {
	source, err := migrationsSource(path)
	if err != nil {
		return errors.Wrap(err, "resolviendo ruta de migraciones")
	}

	m, err := migrate.New(source, cfg.MigrateURL())
	if err != nil {
		return errors.Wrap(err, "creando migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Sin migraciones pendientes")
			return nil
		}
		return errors.Wrap(err, "aplicando migraciones")
	}

	version, _, _ := m.Version()
	log.Info("Migraciones aplicadas correctamente", zap.Uint("version", version))
	return nil
}
