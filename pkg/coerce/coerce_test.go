package coerce

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksysoev/mcpkit/pkg/core"
	"github.com/ksysoev/mcpkit/pkg/typeshape"
)

type operation string

func (operation) Variants() []string { return []string{"ADD", "SUBTRACT", "MULTIPLY", "DIVIDE"} }

type calculatorArgs struct {
	A  float64   `json:"a"`
	B  float64   `json:"b"`
	Op operation `json:"op" mcp:"default=ADD"`
}

type greetArgs struct {
	Name  string  `json:"name"`
	Title *string `json:"title"`
}

type createUserArgs struct {
	Username string   `json:"username"`
	Active   bool     `json:"active"`
	Tags     []string `json:"tags"`
	Meta     map[string]any `json:"meta"`
}

func TestDecodeBasicFields(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(calculatorArgs{}))
	raw := map[string]any{"a": 1.5, "b": 2.5, "op": "add"}
	var out calculatorArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.5, out.A)
	assert.Equal(t, 2.5, out.B)
	assert.Equal(t, operation("ADD"), out.Op)
}

func TestDecodeAppliesDefaultWhenAbsent(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(calculatorArgs{}))
	raw := map[string]any{"a": 1.0, "b": 2.0}
	var out calculatorArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, operation("ADD"), out.Op)
}

func TestDecodeAppliesDefaultWhenNull(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(calculatorArgs{}))
	raw := map[string]any{"a": 1.0, "b": 2.0, "op": nil}
	var out calculatorArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, operation("ADD"), out.Op)
}

func TestDecodeMissingRequiredFieldReturnsMissingParameterError(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(calculatorArgs{}))
	raw := map[string]any{"a": 1.0}
	var out calculatorArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.Error(t, err)
	var missing *core.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "b", missing.Name)
}

func TestDecodeOptionalFieldAbsentIsFine(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(greetArgs{}))
	raw := map[string]any{"name": "Ada"}
	var out greetArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.Name)
	assert.Nil(t, out.Title)
}

func TestDecodeOptionalFieldPresent(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(greetArgs{}))
	raw := map[string]any{"name": "Ada", "title": "Dr"}
	var out greetArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, out.Title)
	assert.Equal(t, "Dr", *out.Title)
}

func TestDecodeOptionalFieldExplicitNoneSentinel(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(greetArgs{}))
	raw := map[string]any{"name": "Ada", "title": "none"}
	var out greetArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, out.Title)
}

func TestDecodeBoolWords(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(createUserArgs{}))

	tests := []struct {
		word string
		want bool
	}{
		{"yes", true},
		{"on", true},
		{"no", false},
		{"off", false},
	}
	for _, tt := range tests {
		raw := map[string]any{"username": "john", "active": tt.word, "tags": []any{}, "meta": map[string]any{}}
		var out createUserArgs

		// Act
		err := Decode(raw, shape, &out)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Active, "word %q", tt.word)
	}
}

func TestDecodeEnumCaseInsensitive(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(calculatorArgs{}))
	raw := map[string]any{"a": 1.0, "b": 2.0, "op": "divide"}
	var out calculatorArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, operation("DIVIDE"), out.Op)
}

func TestDecodeEnumRejectsUnknownVariant(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(calculatorArgs{}))
	raw := map[string]any{"a": 1.0, "b": 2.0, "op": "modulo"}
	var out calculatorArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.Error(t, err)
	var coercionErr *core.CoercionError
	assert.ErrorAs(t, err, &coercionErr)
}

func TestDecodeJSONArrayString(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(createUserArgs{}))
	raw := map[string]any{"username": "john", "active": true, "tags": `["a","b","c"]`, "meta": map[string]any{}}
	var out createUserArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out.Tags)
}

func TestDecodeJSONObjectString(t *testing.T) {
	// Arrange
	shape := typeshape.Of(reflect.TypeOf(createUserArgs{}))
	raw := map[string]any{"username": "john", "active": true, "tags": []any{}, "meta": `{"k":"v"}`}
	var out createUserArgs

	// Act
	err := Decode(raw, shape, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "v", out.Meta["k"])
}

func TestParseBoolTokenExtendedVocabulary(t *testing.T) {
	// Arrange / Act / Assert
	for _, word := range []string{"yes", "on", "true", "1"} {
		got, err := ParseBoolToken(word)
		require.NoError(t, err)
		assert.True(t, got, word)
	}
	for _, word := range []string{"no", "off", "false", "0"} {
		got, err := ParseBoolToken(word)
		require.NoError(t, err)
		assert.False(t, got, word)
	}
}

func TestParseBoolTokenRejectsGarbage(t *testing.T) {
	// Arrange / Act
	_, err := ParseBoolToken("maybe")

	// Assert
	assert.Error(t, err)
}
