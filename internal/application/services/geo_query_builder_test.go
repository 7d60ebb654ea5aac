package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/santeconnect/careconnect/internal/application/services"
)

func TestBuildSearchQuery(t *testing.T) {
	t.Run("broad query covers every category", func(t *testing.T) {
		q := services.BuildSearchQuery(5.36, -4.008, 5000, "", 10)

		assert.True(t, strings.HasPrefix(q, "[out:json][timeout:10];"))
		assert.Contains(t, q, `node["amenity"="hospital"](around:5000,5.36,-4.008);`)
		assert.Contains(t, q, `way["healthcare"](around:5000,5.36,-4.008);`)
		assert.Contains(t, q, "out center body;")
		assert.Equal(t, 16, strings.Count(q, "(around:"))
	})

	t.Run("specialty narrows the selectors", func(t *testing.T) {
		q := services.BuildSearchQuery(5.36, -4.008, 3000, "pediatrician", 10)

		assert.Contains(t, q, `node["amenity"="doctors"](around:3000,5.36,-4.008);`)
		assert.Contains(t, q, `way["healthcare"="doctor"](around:3000,5.36,-4.008);`)
		assert.NotContains(t, q, "pharmacy")
		assert.Equal(t, 4, strings.Count(q, "(around:"))
	})

	t.Run("specialty mapping to two categories", func(t *testing.T) {
		q := services.BuildSearchQuery(5.36, -4.008, 3000, "emergency", 10)

		assert.Contains(t, q, `node["healthcare"="hospital"]`)
		assert.Contains(t, q, `way["amenity"="clinic"]`)
		assert.Equal(t, 8, strings.Count(q, "(around:"))
	})

	t.Run("unknown specialty falls back to broad", func(t *testing.T) {
		q := services.BuildSearchQuery(5.36, -4.008, 3000, "astrologer", 0)

		assert.Contains(t, q, "[timeout:10]")
		assert.Equal(t, 16, strings.Count(q, "(around:"))
	})
}

func TestBuildElementQuery(t *testing.T) {
	assert.Equal(t, "[out:json];\nway(123);\nout body;\n", services.BuildElementQuery("way", 123))
}
