package sheetstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		column int
		want   string
	}{
		{1, "A"},
		{2, "B"},
		{7, "G"},
		{8, "H"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, columnLetter(tt.column))
	}
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "9am-5pm", cellText("9am-5pm"))
	assert.Equal(t, "", cellText(""))
	assert.Equal(t, "42", cellText(42))
}
