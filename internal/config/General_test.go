package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"WEB_PORT", "PUBLIC_URL", "ESTIMATE_CACHE_SIZE", "NATIVE_DENOM",
		"NATIVE_DISPLAY_DENOM", "NATIVE_PRECISION", "CHAIN_REFRESH_INTERVAL", "NODE_GRPC"} {
		t.Setenv(key, "")
	}

	require.NoError(t, LoadConfig())

	assert.Equal(t, 8080, WebPort)
	assert.Equal(t, "http://localhost:8080/", PublicURL)
	assert.Equal(t, 256, EstimateCacheSize)
	assert.Equal(t, "uluna", NativeDenom)
	assert.Equal(t, "LUNA", NativeDisplayDenom)
	assert.Equal(t, 6, NativePrecision)
	assert.Equal(t, 10*time.Minute, ChainRefreshInterval)
	assert.Empty(t, NodeGRPC)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("PUBLIC_URL", "https://estimator.example/")
	t.Setenv("NATIVE_DENOM", "uatom")
	t.Setenv("NATIVE_DISPLAY_DENOM", "")
	t.Setenv("CHAIN_REFRESH_INTERVAL", "30")
	t.Setenv("NODE_GRPC", "localhost:9090")

	require.NoError(t, LoadConfig())

	assert.Equal(t, 9090, WebPort)
	assert.Equal(t, "https://estimator.example/", PublicURL)
	assert.Equal(t, "ATOM", NativeDisplayDenom)
	assert.Equal(t, 30*time.Second, ChainRefreshInterval)
	assert.Equal(t, "localhost:9090", NodeGRPC)
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"WEB_PORT", "eighty"},
		{"WEB_PORT", "70000"},
		{"ESTIMATE_CACHE_SIZE", "0"},
		{"NATIVE_PRECISION", "six"},
		{"CHAIN_REFRESH_INTERVAL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Error(t, LoadConfig())
		})
	}
}

func TestSymbolForDenom(t *testing.T) {
	assert.Equal(t, "LUNA", SymbolForDenom("uluna"))
	assert.Equal(t, "FOO", SymbolForDenom("ufoo"))
	assert.Equal(t, "INJ", SymbolForDenom("inj"))
	assert.Equal(t, "BAR", SymbolForDenom("bar"))
}
