package ynab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNormalize_EmptyOptionalStringsBecomeNil(t *testing.T) {
	tx := Transaction{
		ID:        "T1",
		Memo:      strPtr(""),
		PayeeName: strPtr("  "),
		FlagColor: strPtr("red"),
		Subtransactions: []Subtransaction{
			{ID: "S1", Memo: strPtr("")},
		},
	}

	normalized := tx.Normalize()

	assert.Nil(t, normalized.Memo)
	assert.Nil(t, normalized.PayeeName)
	assert.Equal(t, "red", *normalized.FlagColor)
	assert.Nil(t, normalized.Subtransactions[0].Memo)
	assert.Equal(t, "T1", normalized.Subtransactions[0].TransactionID, "parent id filled in")
	assert.Equal(t, "", *tx.Memo, "original is untouched")
}

func TestMutableFields_ExcludeIdentity(t *testing.T) {
	fields := Transaction{ID: "T1", Amount: -500}.MutableFields()

	assert.NotContains(t, fields, "id")
	assert.NotContains(t, fields, "subtransactions")
	assert.Equal(t, int64(-500), fields["amount"])
	assert.Contains(t, fields, "deleted")

	subFields := Subtransaction{ID: "S1", TransactionID: "T1"}.MutableFields()
	assert.NotContains(t, subFields, "id")
	assert.Equal(t, "T1", subFields["transaction_id"])
}

func TestMilliunitsToDecimal(t *testing.T) {
	assert.Equal(t, "-0.5", MilliunitsToDecimal(-500).String())
	assert.Equal(t, "1234.567", MilliunitsToDecimal(1234567).String())
}
