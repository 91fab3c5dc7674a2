package models_test

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFinalPrice(t *testing.T) {
	assert.Equal(t, 85000.0, models.FinalPrice(100000, 15))
	assert.Equal(t, 29990000.0-2999000.0, models.FinalPrice(29990000, 10))
	assert.Equal(t, 100.0, models.FinalPrice(100, 0))
	assert.Equal(t, 0.0, models.FinalPrice(100, 100))
	// 199 * 0.85 = 169.15
	assert.Equal(t, 169.0, models.FinalPrice(199, 15))
	// 99 * 0.5 = 49.5 rounds up
	assert.Equal(t, 50.0, models.FinalPrice(99, 50))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.0, models.RoundRating(4))
	assert.Equal(t, 4.3, models.RoundRating(4.25))
	assert.Equal(t, 3.7, models.RoundRating(11.0/3.0))
	assert.Equal(t, 0.0, models.RoundRating(0))
}
