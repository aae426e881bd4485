package config

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/stock-ahora/api-mod-semanal/internal/config_lib"
)

// secretReader es la parte de config_lib.Manager que se usa aquí.
type secretReader interface {
	GetSecretString(ctx context.Context, secretID string, versionStage string) (string, error)
}

func LoadSecretManager(ctx context.Context, secretID, region string) (*SecretApp, error) {
	if secretID == "" {
		return nil, errors.New("APP_SECRET_ID no definido")
	}

	sm, err := config_lib.New(ctx, region)
	if err != nil {
		return nil, errors.Wrap(err, "crear secrets manager")
	}
	return readSecret(ctx, sm, secretID)
}

func readSecret(ctx context.Context, sm secretReader, secretID string) (*SecretApp, error) {
	raw, err := sm.GetSecretString(ctx, secretID, "AWSCURRENT")
	if err != nil {
		return nil, errors.Wrap(err, "obtener secreto")
	}
	if raw == "" {
		return nil, errors.Errorf("el secreto %s está vacío", secretID)
	}

	var cfg SecretApp
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, errors.Wrap(err, "parsear secreto JSON")
	}
	return &cfg, nil
}
