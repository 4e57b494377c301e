package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "CERO EUROS CON 00/100"},
		{1, "UNO EUROS CON 00/100"},
		{21, "VEINTIUNO EUROS CON 00/100"},
		{100, "CIEN EUROS CON 00/100"},
		{1500.50, "MIL QUINIENTOS EUROS CON 50/100"},
		{60500, "SESENTA MIL QUINIENTOS EUROS CON 00/100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NumberToWords(tt.amount), "amount %.2f", tt.amount)
	}
}
