package mcpctx

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksysoev/mcpkit/pkg/core"
)

func TestNewDefaultsNilContext(t *testing.T) {
	// Arrange / Act
	rc := New(nil, core.ClientInfo{Name: "claude"}, nil)

	// Assert
	assert.NotNil(t, rc.Context())
	assert.Equal(t, "claude", rc.ClientInfo().Name)
}

func TestEmptyHasBackgroundContext(t *testing.T) {
	// Arrange / Act
	rc := Empty()

	// Assert
	assert.Equal(t, context.Background(), rc.Context())
	assert.Equal(t, core.ClientInfo{}, rc.ClientInfo())
}

func TestRawCapability(t *testing.T) {
	// Arrange
	caps := core.ClientCapabilities{"sampling": json.RawMessage(`{"enabled":true}`)}
	rc := New(context.Background(), core.ClientInfo{}, caps)

	// Act
	raw, ok := rc.RawCapability("sampling")

	// Assert
	require.True(t, ok)
	assert.JSONEq(t, `{"enabled":true}`, string(raw))
}

func TestRawCapabilityMissing(t *testing.T) {
	// Arrange
	rc := New(context.Background(), core.ClientInfo{}, nil)

	// Act
	_, ok := rc.RawCapability("sampling")

	// Assert
	assert.False(t, ok)
}

func TestIsRequestContextExactTypeOnly(t *testing.T) {
	// Arrange
	rcType := reflect.TypeOf(RequestContext{})
	stringType := reflect.TypeOf("")
	ptrType := reflect.PtrTo(rcType)

	// Act / Assert
	assert.True(t, IsRequestContext(rcType))
	assert.False(t, IsRequestContext(stringType))
	assert.False(t, IsRequestContext(ptrType))
}
