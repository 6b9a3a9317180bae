package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayScan(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["Vegan","Quick"]`)))
	assert.Equal(t, StringArray{"Vegan", "Quick"}, a)

	var fromString StringArray
	require.NoError(t, fromString.Scan(`["Dinner"]`))
	assert.Equal(t, StringArray{"Dinner"}, fromString)

	var fromNil StringArray
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)

	var bad StringArray
	assert.Error(t, bad.Scan(42))
}

func TestStringArrayContains(t *testing.T) {
	a := StringArray{"Vegan", "Dessert"}
	assert.True(t, a.Contains("Vegan"))
	assert.False(t, a.Contains("vegan"))
	assert.False(t, a.Contains("Breakfast"))
}

func TestRecipeCloneIsDeep(t *testing.T) {
	r := Recipe{Name: "Soup", Tags: StringArray{"Dinner"}}
	c := r.Clone()
	c.Tags[0] = "Lunch"
	assert.Equal(t, "Dinner", string(r.Tags[0]))
}
