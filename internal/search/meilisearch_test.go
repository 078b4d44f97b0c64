package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteFilterValue(t *testing.T) {
	assert.Equal(t, `'coconut'`, quoteFilterValue("coconut"))
	assert.Equal(t, `'Kerala\'s'`, quoteFilterValue("Kerala's"))
	assert.Equal(t, `'a\\b'`, quoteFilterValue(`a\b`))
	assert.Equal(t, `'x\' OR id != \'\''`, quoteFilterValue("x' OR id != ''"))
}
