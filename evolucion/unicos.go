package evolucion

// GenerarUnicos junta n valores distintos según clave, empezando por semilla
// y completando con generador. Si el generador no produce suficientes valores
// distintos en maxIntentos llamadas, el resultado se completa repitiendo
// valores generados y completo es false.
func GenerarUnicos[T any](n int, semilla []T, generador func() T, clave func(T) string, maxIntentos int) (resultado []T, completo bool) {
	resultado = make([]T, 0, n)
	vistos := make(map[string]struct{}, n)

	agregar := func(v T) {
		k := clave(v)
		if _, existe := vistos[k]; existe {
			return
		}
		vistos[k] = struct{}{}
		resultado = append(resultado, v)
	}

	for _, v := range semilla {
		if len(resultado) == n {
			return resultado, true
		}
		agregar(v)
	}
	for intento := 0; intento < maxIntentos && len(resultado) < n; intento++ {
		agregar(generador())
	}
	if len(resultado) == n {
		return resultado, true
	}
	for len(resultado) < n {
		resultado = append(resultado, generador())
	}
	return resultado, false
}
