package config_lib

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	sm "github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	input       *sm.GetSecretValueInput
	hasDeadline bool
	out         *sm.GetSecretValueOutput
	err         error
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, in *sm.GetSecretValueInput, _ ...func(*sm.Options)) (*sm.GetSecretValueOutput, error) {
	f.input = in
	_, f.hasDeadline = ctx.Deadline()
	return f.out, f.err
}

func TestManager_GetSecretString(t *testing.T) {
	fake := &fakeSecrets{out: &sm.GetSecretValueOutput{SecretString: aws.String(`{"host":"db"}`)}}
	m := &Manager{client: fake}

	raw, err := m.GetSecretString(context.Background(), "mod/app", "AWSCURRENT")
	require.NoError(t, err)
	assert.Equal(t, `{"host":"db"}`, raw)
	assert.Equal(t, "mod/app", aws.ToString(fake.input.SecretId))
	assert.Equal(t, "AWSCURRENT", aws.ToString(fake.input.VersionStage))
	assert.True(t, fake.hasDeadline)
}

func TestManager_GetSecretString_Binary(t *testing.T) {
	m := &Manager{client: &fakeSecrets{out: &sm.GetSecretValueOutput{}}}

	raw, err := m.GetSecretString(context.Background(), "mod/app", "AWSCURRENT")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestManager_GetSecretString_Error(t *testing.T) {
	m := &Manager{client: &fakeSecrets{err: assert.AnError}}

	_, err := m.GetSecretString(context.Background(), "mod/app", "AWSCURRENT")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://reportes.s3.us-east-2.amazonaws.com", PublicBase("reportes", "us-east-2"))
}
