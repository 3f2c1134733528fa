package basket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_MergesDuplicates(t *testing.T) {
	b := New("b1")
	require.NoError(t, b.Add("milk", 1))
	require.NoError(t, b.Add("bread", 2))
	require.NoError(t, b.Add("milk", 3))

	assert.Equal(t, []Line{{"milk", 4}, {"bread", 2}}, b.Lines)
	assert.NoError(t, b.Validate())
}

func TestAdd_Rejects(t *testing.T) {
	b := New("b1")
	assert.True(t, errors.Is(b.Add("milk", 0), ErrInvalidQuantity))
	assert.True(t, errors.Is(b.Add("milk", -1), ErrInvalidQuantity))
	assert.True(t, errors.Is(b.Add("  ", 1), ErrEmptyProductID))
	assert.Empty(t, b.Lines)
}

func TestSetQuantity(t *testing.T) {
	b, err := FromLines("b1", []Line{{"milk", 1}, {"bread", 1}})
	require.NoError(t, err)

	require.NoError(t, b.SetQuantity("milk", 5))
	assert.Equal(t, 5, b.Lines[0].Quantity)

	require.NoError(t, b.SetQuantity("milk", 0))
	assert.Equal(t, []Line{{"bread", 1}}, b.Lines)

	assert.True(t, errors.Is(b.SetQuantity("eggs", 2), ErrLineNotFound))
	assert.True(t, errors.Is(b.SetQuantity("bread", -2), ErrInvalidQuantity))
}

func TestRemove(t *testing.T) {
	b, err := FromLines("b1", []Line{{"milk", 1}})
	require.NoError(t, err)
	require.NoError(t, b.Remove("milk"))
	assert.Empty(t, b.Lines)
	assert.True(t, errors.Is(b.Remove("milk"), ErrLineNotFound))
}

func TestFromLines_MergesAndValidates(t *testing.T) {
	b, err := FromLines("b1", []Line{{"milk", 1}, {"milk", 2}})
	require.NoError(t, err)
	assert.Equal(t, []Line{{"milk", 3}}, b.Lines)

	_, err = FromLines("b1", []Line{{"milk", 0}})
	assert.Error(t, err)
}

func TestSnapshot_IsCopy(t *testing.T) {
	b, err := FromLines("b1", []Line{{"milk", 1}})
	require.NoError(t, err)
	snap := b.Snapshot()
	snap[0].Quantity = 99
	assert.Equal(t, 1, b.Lines[0].Quantity)
}

func TestValidateLines(t *testing.T) {
	assert.NoError(t, ValidateLines(nil))
	assert.Error(t, ValidateLines([]Line{{"", 1}}))
	assert.Error(t, ValidateLines([]Line{{"a", 0}}))
	assert.Error(t, ValidateLines([]Line{{"a", 1}, {"a", 2}}))
}
