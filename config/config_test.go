package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  env: test
  serviceName: storefront
  log:
    pretty: false
    level: info

http:
  port: 3001

stripe:
  secretKey: sk_file
  webhookSecret: whsec_file

shippo:
  token: ""
  baseUrl: https://api.goshippo.com

telegram:
  botToken: ""
  chatIds: "111, 222,,333"
`

func writeTestConfig(t *testing.T) {
	t.Helper()

	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("test.yaml", []byte(testYAML), 0o644))
}

func TestLoadWithEnv_ReadsYAML(t *testing.T) {
	writeTestConfig(t)

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.HTTP.Port)
	assert.Equal(t, "sk_file", cfg.Stripe.SecretKey)
	assert.Equal(t, "https://api.goshippo.com", cfg.Shippo.BaseURL)
}

func TestLoadWithEnv_EnvOverridesCanonicalizedKeys(t *testing.T) {
	writeTestConfig(t)

	// Flat env segments must land on the camelCase YAML keys.
	t.Setenv("STRIPE_WEBHOOKSECRET", "whsec_env")
	t.Setenv("HTTP_PORT", "4000")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "whsec_env", cfg.Stripe.WebhookSecret)
	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, "sk_file", cfg.Stripe.SecretKey)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("nope")
	require.Error(t, err)
}

func TestRecipients(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.ChatIDs = "111, 222,,333 "
	assert.Equal(t, []string{"111", "222", "333"}, cfg.Recipients())

	cfg.Telegram.ChatIDs = ""
	assert.Empty(t, cfg.Recipients())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "US", cfg.ShipFrom.Country)
	assert.Equal(t, float64(16), cfg.Parcel.WeightOz)
	assert.Equal(t, float64(10), cfg.Parcel.LengthIn)
	assert.Equal(t, float64(8), cfg.Parcel.WidthIn)
	assert.Equal(t, float64(2), cfg.Parcel.HeightIn)
	assert.Equal(t, int64(800), cfg.Shipping.FlatRateCents)
	assert.Equal(t, "data", cfg.Data.Dir)

	// Explicit settings survive.
	cfg.Shipping.FlatRateCents = 1200
	applyDefaults(cfg)
	assert.Equal(t, int64(1200), cfg.Shipping.FlatRateCents)
}

func TestShipFromComplete(t *testing.T) {
	assert.False(t, ShipFrom{}.Complete())
	assert.True(t, ShipFrom{
		Name: "Shop", Street1: "9 Dock Rd", City: "Reno", State: "NV", Zip: "89501",
	}.Complete())
}
