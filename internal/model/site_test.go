package model

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlugFormat(t *testing.T) {
	s := MakeSlug("Joe's Pizza & Pasta!")

	assert.Regexp(t, regexp.MustCompile(`^joe-s-pizza-pasta-[0-9a-f]{6}$`), s)
}

func TestMakeSlugUniqueForIdenticalNames(t *testing.T) {
	a := MakeSlug("Sunrise Bakery")
	b := MakeSlug("Sunrise Bakery")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "sunrise-bakery-"))
	assert.True(t, strings.HasPrefix(b, "sunrise-bakery-"))
}

func TestMakeSlugTruncatesLongNames(t *testing.T) {
	s := MakeSlug(strings.Repeat("very long business name ", 10))

	// base capped plus the hyphen and 6-char suffix
	assert.LessOrEqual(t, len(s), 40+7)
}

func TestMakeSlugEmptyName(t *testing.T) {
	s := MakeSlug("!!!")
	assert.True(t, strings.HasPrefix(s, "site-"))
}

func TestNewShareTokenUnguessable(t *testing.T) {
	a := NewShareToken()
	b := NewShareToken()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
