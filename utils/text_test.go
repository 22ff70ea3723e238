package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"milk", "Milk"},
		{"SUGAR", "Sugar"},
		{"sour cream", "Sour cream"},
		{"сахар", "Сахар"},
		{"мУКА пшеничная", "Мука пшеничная"},
		{"1% milk", "1% milk"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}
