package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForPreference(t *testing.T) {
	assert.Equal(t, "tokyo-night", ForPreference("tokyo-night", false).Name)
	assert.Equal(t, "flexoki-dark", ForPreference("", true).Name)
	assert.Equal(t, "flexoki-light", ForPreference("", false).Name)
	assert.Equal(t, "flexoki-light", ForPreference("nope", false).Name)
}

func TestByNameDefaults(t *testing.T) {
	assert.Equal(t, FlexokiDark.Name, ByName("missing").Name)
	_, ok := Lookup("terminal")
	assert.True(t, ok)
	assert.Len(t, Names(), len(All))
}
