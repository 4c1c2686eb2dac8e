package evolucion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbiale/evocom/tipos"
)

func poblacionConAptitudes(aptitudes ...float64) []tipos.Receta {
	pool := make([]tipos.Receta, len(aptitudes))
	for i, apt := range aptitudes {
		pool[i] = recetaDeLargo(i%7, tipos.Ninguna)
		pool[i].FijarAptitud(apt)
	}
	return pool
}

// TestSeleccionarElite verifica que se eligen las k menores aptitudes
func TestSeleccionarElite(t *testing.T) {
	pool := poblacionConAptitudes(0.9, 0.2, 0.7, 0.1, 0.5, 0.3, 0.8, 0.4, 0.6, 1.2)

	elite := SeleccionarElite(3, pool)
	require.Len(t, elite, 3)
	obtenidas := map[float64]bool{}
	for _, r := range elite {
		apt, _ := r.Aptitud()
		obtenidas[apt] = true
	}
	assert.Equal(t, map[float64]bool{0.1: true, 0.2: true, 0.3: true}, obtenidas)

	// El pool original no se reordena
	apt, _ := pool[0].Aptitud()
	assert.Equal(t, 0.9, apt)

	assert.Len(t, SeleccionarElite(len(pool), pool), len(pool))
	assert.Empty(t, SeleccionarElite(0, pool))
}

// TestSeleccionarElite_Empates verifica quickselect con aptitudes repetidas
func TestSeleccionarElite_Empates(t *testing.T) {
	pool := poblacionConAptitudes(0.5, 0.5, 0.5, 0.1, 0.5, 0.5, 0.1)
	elite := SeleccionarElite(2, pool)
	for _, r := range elite {
		apt, _ := r.Aptitud()
		assert.Equal(t, 0.1, apt)
	}
}

// TestSeleccionarElite_MasQueElPool verifica el pánico por error de programación
func TestSeleccionarElite_MasQueElPool(t *testing.T) {
	assert.Panics(t, func() {
		SeleccionarElite(4, poblacionConAptitudes(0.1, 0.2))
	})
}

// TestSeleccionTorneo_TorneoGrande verifica que un torneo de todo el pool casi siempre elige al mejor
func TestSeleccionTorneo_TorneoGrande(t *testing.T) {
	pool := poblacionConAptitudes(0.9, 0.8, 0.05, 0.7)
	s := NuevoSeleccionador(SeleccionTorneo{Proporcion: 10}, NuevoAleatorio(9))
	require.NoError(t, s.PrepararPool(pool))

	mejores := 0
	for i := 0; i < 100; i++ {
		r, err := s.Seleccionar()
		require.NoError(t, err)
		if apt, _ := r.Aptitud(); apt == 0.05 {
			mejores++
		}
	}
	// 40 participantes: la probabilidad de no ver al mejor es (3/4)^40
	assert.GreaterOrEqual(t, mejores, 99)
}

// TestSeleccionTorneo_ProporcionMinima verifica que siempre participa al menos un individuo
func TestSeleccionTorneo_ProporcionMinima(t *testing.T) {
	pool := poblacionConAptitudes(0.3, 0.6)
	s := NuevoSeleccionador(SeleccionTorneo{Proporcion: 0}, NuevoAleatorio(10))
	require.NoError(t, s.PrepararPool(pool))
	_, err := s.Seleccionar()
	assert.NoError(t, err)
}

// TestSeleccionProporcional_NoImplementada verifica el error explícito
func TestSeleccionProporcional_NoImplementada(t *testing.T) {
	s := NuevoSeleccionador(SeleccionProporcional{}, NuevoAleatorio(11))
	err := s.PrepararPool(poblacionConAptitudes(0.1))
	if !errors.Is(err, ErrSeleccionNoImplementada) {
		t.Errorf("PrepararPool: se esperaba ErrSeleccionNoImplementada, obtenido %v", err)
	}
	_, err = s.Seleccionar()
	if !errors.Is(err, ErrSeleccionNoImplementada) {
		t.Errorf("Seleccionar: se esperaba ErrSeleccionNoImplementada, obtenido %v", err)
	}
}
