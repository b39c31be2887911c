package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "Finance,50,20,10,5,40,35,25\n" +
		",,\n" +
		"Total,400\n"

	raw, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	// Uneven field counts are allowed and blank rows are pruned.
	require.Len(t, raw, 2)
	assert.Equal(t, "Finance", raw[0][0])
	assert.Equal(t, "400", raw[1][1])
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/input.csv")
	assert.Error(t, err)
}
