package rowhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_IndependentOfInsertionOrder(t *testing.T) {
	a := map[string]any{}
	a["amount"] = int64(-500)
	a["memo"] = "coffee"
	a["deleted"] = false

	b := map[string]any{}
	b["deleted"] = false
	b["memo"] = "coffee"
	b["amount"] = int64(-500)

	hashA, err := Sum(a)
	require.NoError(t, err)
	hashB, err := Sum(b)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
	assert.Len(t, hashA, 64)
}

func TestSum_DetectsChanges(t *testing.T) {
	memo := "coffee"
	base, _ := Sum(map[string]any{"amount": int64(-500), "memo": &memo, "deleted": false})
	changedAmount, _ := Sum(map[string]any{"amount": int64(-550), "memo": &memo, "deleted": false})
	deleted, _ := Sum(map[string]any{"amount": int64(-500), "memo": &memo, "deleted": true})

	assert.NotEqual(t, base, changedAmount)
	assert.NotEqual(t, base, deleted)
	assert.NotEqual(t, changedAmount, deleted)
}

func TestSum_NilAndMissingPointerAreDistinctFromEmptyString(t *testing.T) {
	var none *string
	empty := ""
	withNil, _ := Sum(map[string]any{"memo": none})
	withEmpty, _ := Sum(map[string]any{"memo": &empty})

	assert.NotEqual(t, withNil, withEmpty, "callers must normalize before hashing")
}

func TestSum_Unencodable(t *testing.T) {
	_, err := Sum(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
