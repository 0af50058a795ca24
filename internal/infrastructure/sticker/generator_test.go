package sticker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsbay/internal/infrastructure/sticker"
)

func TestGenerate(t *testing.T) {
	labels := []sticker.Label{
		{OrderNumber: 1001, Title: "Brake caliper", PlaceNumber: 1, OptID: "OPT-7", Container: "CONT-3"},
		{OrderNumber: 1001, Title: "Brake caliper", PlaceNumber: 2, OptID: "OPT-7"},
		{OrderNumber: 1002, Title: "Turbocharger", PlaceNumber: 1},
	}

	pdf, err := sticker.Generate(labels)
	require.NoError(t, err)

	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerate_EmptyInput(t *testing.T) {
	_, err := sticker.Generate(nil)
	assert.Error(t, err)
}
