package semester_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusforge/gradplan/internal/semester"
)

func TestThresholdKnownLevels(t *testing.T) {
	cases := []struct {
		level string
		want  int
	}{
		{"first", semester.FirstYear},
		{"second", semester.SecondYear},
		{"third", semester.ThirdYear},
		{"fourth", semester.FourthYear},
	}
	for _, c := range cases {
		got, ok := semester.Threshold(c.level)
		assert.True(t, ok)
		assert.Equal(t, c.want, got)
	}
}

func TestThresholdUnknownLevel(t *testing.T) {
	_, ok := semester.Threshold("fifth")
	assert.False(t, ok)
}

func TestUnknownIsOneBeyondHorizon(t *testing.T) {
	assert.Equal(t, 9, semester.Unknown(8))
	assert.Equal(t, 2, semester.Unknown(1))
}
