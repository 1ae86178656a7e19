package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck_CleanText(t *testing.T) {
	f := New()
	assert.NoError(t, f.Check("World capitals", "Paris", "London"))
	assert.NoError(t, f.Check())
	assert.NoError(t, f.Check(""))
}

func TestCheck_ProfaneText(t *testing.T) {
	f := New()
	err := f.Check("Paris", "this is bullshit")
	assert.ErrorIs(t, err, ErrProfanity)
	assert.NotEmpty(t, err.Error())
}

func TestIsProfane(t *testing.T) {
	f := New()
	assert.True(t, f.IsProfane("you fucking idiot"))
	assert.False(t, f.IsProfane("flashcards about biology"))
}
