package dnf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusforge/gradplan/internal/dnf"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, dnf.Expression(nil).IsEmpty())
	assert.True(t, dnf.Expression{}.IsEmpty())
	assert.False(t, dnf.Expression{{"csci1000u"}}.IsEmpty())
}
