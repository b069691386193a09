package uritemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileStaticPatternIsNotTemplate(t *testing.T) {
	// Arrange / Act
	tmpl := Compile("config://settings")

	// Assert
	assert.False(t, tmpl.IsTemplate())
	assert.Empty(t, tmpl.ParamNames())
	assert.True(t, tmpl.Matches("config://settings"))
	assert.False(t, tmpl.Matches("config://settings/extra"))
}

func TestCompileSinglePlaceholder(t *testing.T) {
	// Arrange
	tmpl := Compile("users://{userId}")

	// Act / Assert
	assert.True(t, tmpl.IsTemplate())
	assert.Equal(t, []string{"userId"}, tmpl.ParamNames())
	assert.True(t, tmpl.Matches("users://123"))
	assert.False(t, tmpl.Matches("users://123/extra"))
}

func TestExtractReturnsPlaceholderValues(t *testing.T) {
	// Arrange
	tmpl := Compile("repos://{owner}/{name}")

	// Act
	values, ok := tmpl.Extract("repos://ksysoev/mcpkit")

	// Assert
	require.True(t, ok)
	assert.Equal(t, map[string]string{"owner": "ksysoev", "name": "mcpkit"}, values)
}

func TestExtractFailsOnNonMatchingURI(t *testing.T) {
	// Arrange
	tmpl := Compile("users://{userId}")

	// Act
	_, ok := tmpl.Extract("accounts://123")

	// Assert
	assert.False(t, ok)
}

func TestCompileEscapesLiteralRegexMetacharacters(t *testing.T) {
	// Arrange
	tmpl := Compile("files://{path}.txt")

	// Act / Assert
	assert.True(t, tmpl.Matches("files://report.txt"))
	assert.False(t, tmpl.Matches("files://reportXtxt"))
}

func TestPatternReturnsOriginalString(t *testing.T) {
	// Arrange
	pattern := "users://{userId}/posts/{postId}"
	tmpl := Compile(pattern)

	// Act / Assert
	assert.Equal(t, pattern, tmpl.Pattern())
	assert.Equal(t, []string{"userId", "postId"}, tmpl.ParamNames())
}
