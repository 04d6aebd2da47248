package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich(t *testing.T) {
	t.Run("humidity from temperature and dewpoint", func(t *testing.T) {
		m := Enrich(METAR{
			Temperature: &Temperature{Celsius: 9},
			Dewpoint:    &Dewpoint{Celsius: 8},
		})

		require.NotNil(t, m.HumidityPercent)
		assert.Equal(t, 93, *m.HumidityPercent)
	})

	t.Run("saturated air reads 100 percent", func(t *testing.T) {
		m := Enrich(METAR{
			Temperature: &Temperature{Celsius: 15},
			Dewpoint:    &Dewpoint{Celsius: 15},
		})

		require.NotNil(t, m.HumidityPercent)
		assert.Equal(t, 100, *m.HumidityPercent)
	})

	t.Run("humidity absent when either input is absent", func(t *testing.T) {
		m := Enrich(METAR{Temperature: &Temperature{Celsius: 9}})
		assert.Nil(t, m.HumidityPercent)

		m = Enrich(METAR{Dewpoint: &Dewpoint{Celsius: 8}})
		assert.Nil(t, m.HumidityPercent)
	})

	t.Run("barometer conversions", func(t *testing.T) {
		m := Enrich(METAR{Barometer: &Barometer{Mb: 1022.4}})

		require.NotNil(t, m.Barometer)
		assert.Equal(t, 1022.4, m.Barometer.Mb)
		assert.Equal(t, 30.19, m.Barometer.Hg)
		assert.Equal(t, 102.24, m.Barometer.Kpa)
	})

	t.Run("barometer absent stays absent", func(t *testing.T) {
		m := Enrich(METAR{})
		assert.Nil(t, m.Barometer)
	})
}
