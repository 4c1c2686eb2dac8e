package compresor

import (
	"bytes"
	"errors"
	"math/rand"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
)

func bloquesDePrueba() map[string]tipos.Bloque {
	rng := rand.New(rand.NewSource(11))
	aleatorio := make(tipos.Bloque, 2000)
	rng.Read(aleatorio)

	rampa := make(tipos.Bloque, 256)
	for i := range rampa {
		rampa[i] = tipos.Unidad(i)
	}

	texto := []byte("sensor=23.5;sensor=23.6;sensor=23.6;sensor=23.7;sensor=23.5;")

	return map[string]tipos.Bloque{
		"una unidad":  {200},
		"ceros":       make(tipos.Bloque, 8),
		"rampa":       rampa,
		"texto":       bytes.Repeat(texto, 10),
		"aleatorio":   aleatorio,
		"dos valores": bytes.Repeat([]byte{0x10, 0xF3}, 100),
	}
}

// comprimirBytes ejecuta un compresor y retorna los bytes con relleno
func comprimirBytes(t *testing.T, c Compresor, bloque tipos.Bloque) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := flujobits.NuevoEscritor(&buf)
	require.NoError(t, c.Comprimir(bloque, w))
	require.NoError(t, w.ForzarUltimo())
	return buf.Bytes()
}

// TestCompresores_Roundtrip verifica descomprimir(comprimir(b)) == b para todo el catálogo
func TestCompresores_Roundtrip(t *testing.T) {
	for _, codigo := range tipos.CompresionesDisponibles() {
		c, err := Para(codigo)
		require.NoError(t, err)

		for nombre, bloque := range bloquesDePrueba() {
			t.Run(codigo.String()+"/"+nombre, func(t *testing.T) {
				datos := comprimirBytes(t, c, bloque)
				recuperado, err := c.Descomprimir(flujobits.NuevoLectorBytes(datos))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(bloque, recuperado), "bloque distinto tras el roundtrip")
			})
		}
	}
}

// TestCompresores_BloqueVacio verifica que todos salvo Huffman aceptan bloques vacíos
func TestCompresores_BloqueVacio(t *testing.T) {
	for _, codigo := range tipos.CompresionesDisponibles() {
		c, err := Para(codigo)
		require.NoError(t, err)

		if codigo == tipos.Huffman {
			err := c.Comprimir(tipos.Bloque{}, flujobits.NuevoContador())
			assert.ErrorIs(t, err, ErrFrecuenciasVacias)
			continue
		}

		datos := comprimirBytes(t, c, tipos.Bloque{})
		recuperado, err := c.Descomprimir(flujobits.NuevoLectorBytes(datos))
		require.NoError(t, err, codigo.String())
		assert.Empty(t, recuperado, codigo.String())
	}
}

// TestCompresores_Autodelimitados verifica que varias cargas concatenadas se leen en orden
func TestCompresores_Autodelimitados(t *testing.T) {
	bloques := []tipos.Bloque{
		{1, 2, 3},
		bytes.Repeat([]byte{7}, 40),
		[]byte("evolución"),
	}
	var buf bytes.Buffer
	w := flujobits.NuevoEscritor(&buf)
	for i, codigo := range tipos.CompresionesDisponibles() {
		c, _ := Para(codigo)
		require.NoError(t, c.Comprimir(bloques[i%len(bloques)], w))
	}
	require.NoError(t, w.ForzarUltimo())

	r := flujobits.NuevoLectorBytes(buf.Bytes())
	for i, codigo := range tipos.CompresionesDisponibles() {
		c, _ := Para(codigo)
		recuperado, err := c.Descomprimir(r)
		require.NoError(t, err, codigo.String())
		assert.Equal(t, bloques[i%len(bloques)], recuperado, codigo.String())
	}
	t.Log("✓ Ningún compresor consume bits del bloque siguiente")
}

// TestPara_CodigoDesconocido verifica el error para códigos fuera del catálogo
func TestPara_CodigoDesconocido(t *testing.T) {
	_, err := Para(tipos.CodigoCompresion(15))
	if !errors.Is(err, ErrCodigoDesconocido) {
		t.Errorf("se esperaba ErrCodigoDesconocido, obtenido %v", err)
	}
}

// TestNinguno_Tamano verifica el tamaño exacto de la carga identidad
func TestNinguno_Tamano(t *testing.T) {
	contador := flujobits.NuevoContador()
	require.NoError(t, (&CompresorNinguno{}).Comprimir(make(tipos.Bloque, 8), contador))
	// Rice(8) = 6 bits, más 64 bits de unidades
	assert.Equal(t, uint64(70), contador.Total())
}

// TestRLE_CorridaLarga verifica que una corrida larga ocupa pocos bits
func TestRLE_CorridaLarga(t *testing.T) {
	contador := flujobits.NuevoContador()
	require.NoError(t, (&CompresorRLE{}).Comprimir(bytes.Repeat([]byte{5}, 100000), contador))
	assert.Less(t, contador.Total(), uint64(64))
}

// TestBits_AnchoCero verifica que un bloque constante solo escribe cabecera
func TestBits_AnchoCero(t *testing.T) {
	contador := flujobits.NuevoContador()
	require.NoError(t, (&CompresorBits{}).Comprimir(bytes.Repeat([]byte{9}, 8), contador))
	// Rice(8) + min + ancho
	assert.Equal(t, uint64(6+8+4), contador.Total())
}

// TestDiccionario_IndiceFueraDeRango verifica el rechazo de índices inválidos
func TestDiccionario_IndiceFueraDeRango(t *testing.T) {
	var buf bytes.Buffer
	w := flujobits.NuevoEscritor(&buf)
	require.NoError(t, flujobits.EscribirRice(w, 1)) // una unidad
	require.NoError(t, flujobits.EscribirRice(w, 2)) // tres entradas
	w.EscribirBits(0xAABBCC, 24)
	w.EscribirBits(3, 2) // índice 3 con tres entradas
	require.NoError(t, w.ForzarUltimo())

	_, err := (&CompresorDiccionario{}).Descomprimir(flujobits.NuevoLectorBytes(buf.Bytes()))
	assert.ErrorIs(t, err, ErrCargaInvalida)
}

// TestLZ4_Incompresible verifica que un bloque aleatorio se guarda crudo
func TestLZ4_Incompresible(t *testing.T) {
	bloque := bloquesDePrueba()["aleatorio"]
	contador := flujobits.NuevoContador()
	require.NoError(t, (&CompresorLZ4{}).Comprimir(bloque, contador))

	rice, _ := flujobits.BitsRice(uint64(len(bloque)))
	assert.Equal(t, rice+1+uint64(8*len(bloque)), contador.Total())
}

// TestDescomprimir_Truncado verifica que cada compresor reporta una carga cortada
func TestDescomprimir_Truncado(t *testing.T) {
	bloque := bloquesDePrueba()["texto"]
	for _, codigo := range tipos.CompresionesDisponibles() {
		c, _ := Para(codigo)
		datos := comprimirBytes(t, c, bloque)
		_, err := c.Descomprimir(flujobits.NuevoLectorBytes(datos[:len(datos)/2]))
		assert.Error(t, err, codigo.String())
	}
}

// flujoConLongitudDeclarada escribe Rice(n) seguido de lo que agregue resto
func flujoConLongitudDeclarada(t *testing.T, n uint64, resto func(w *flujobits.Escritor)) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := flujobits.NuevoEscritor(&buf)
	require.NoError(t, flujobits.EscribirRice(w, n))
	resto(w)
	require.NoError(t, w.ForzarUltimo())
	return buf.Bytes()
}

// bytesReservados mide la memoria reservada por f
func bytesReservados(f func()) uint64 {
	var antes, despues runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&antes)
	f()
	runtime.ReadMemStats(&despues)
	return despues.TotalAlloc - antes.TotalAlloc
}

// TestDescomprimir_LongitudDeclaradaEnorme verifica que una longitud falsa en
// un flujo corto no reserva memoria proporcional a la longitud
func TestDescomprimir_LongitudDeclaradaEnorme(t *testing.T) {
	const declarada = 1 << 29

	casos := map[string]struct {
		compresor Compresor
		datos     []byte
	}{
		"Ninguno": {&CompresorNinguno{}, flujoConLongitudDeclarada(t, declarada, func(w *flujobits.Escritor) {
			w.EscribirBits(0xABCDEF, 24)
		})},
		"Bits": {&CompresorBits{}, flujoConLongitudDeclarada(t, declarada, func(w *flujobits.Escritor) {
			w.EscribirBits(0, tipos.BitsPorUnidad)
			w.EscribirBits(8, bitsAnchoEmpaquetado)
			w.EscribirBits(0xABCD, 16)
		})},
		"ZSTD": {&CompresorZSTD{}, flujoConLongitudDeclarada(t, declarada, func(w *flujobits.Escritor) {
			w.EscribirBits(0x01, 8)
		})},
	}

	for nombre, c := range casos {
		t.Run(nombre, func(t *testing.T) {
			var err error
			reservado := bytesReservados(func() {
				_, err = c.compresor.Descomprimir(flujobits.NuevoLectorBytes(c.datos))
			})
			assert.ErrorIs(t, err, flujobits.ErrFlujoTruncado)
			assert.Less(t, reservado, uint64(16<<20), "reservó %d bytes", reservado)
		})
	}
	t.Log("✓ Longitudes falsas no reservan memoria de más")
}

// TestDescomprimir_ExpansionImposible verifica el rechazo de longitudes que
// LZ4 y Snappy no pueden producir con la carga recibida
func TestDescomprimir_ExpansionImposible(t *testing.T) {
	lz4 := flujoConLongitudDeclarada(t, 1<<29, func(w *flujobits.Escritor) {
		w.EscribirBit(true)
		require.NoError(t, escribirCarga(w, []byte{0x40, 1, 2, 3}))
	})
	_, err := (&CompresorLZ4{}).Descomprimir(flujobits.NuevoLectorBytes(lz4))
	assert.ErrorIs(t, err, ErrCargaInvalida)

	// varint de Snappy que declara 1<<28 bytes
	var buf bytes.Buffer
	w := flujobits.NuevoEscritor(&buf)
	require.NoError(t, escribirCarga(w, []byte{0x80, 0x80, 0x80, 0x80, 0x01}))
	require.NoError(t, w.ForzarUltimo())
	_, err = (&CompresorSnappy{}).Descomprimir(flujobits.NuevoLectorBytes(buf.Bytes()))
	assert.ErrorIs(t, err, ErrCargaInvalida)
}

// TestGzip_ReutilizaEscritores verifica que un writer devuelto al pool produce la misma salida
func TestGzip_ReutilizaEscritores(t *testing.T) {
	c := &CompresorGzip{}
	bloque := bloquesDePrueba()["texto"]

	primera := comprimirBytes(t, c, bloque)
	for i := 0; i < 3; i++ {
		assert.Equal(t, primera, comprimirBytes(t, c, bloque), "compresión %d", i)
	}
	recuperado, err := c.Descomprimir(flujobits.NuevoLectorBytes(primera))
	require.NoError(t, err)
	assert.Equal(t, bloque, recuperado)
}
