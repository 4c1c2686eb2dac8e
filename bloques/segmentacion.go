/*
## Algoritmo de segmentación

Fija: total/tamano bloques (al menos uno). El último absorbe el resto, así
ningún bloque es más chico que tamano salvo cuando la entrada entera lo es.

Agrupada: recorre la entrada en ventanas de 64 unidades y compara el
histograma del bloque en curso con el de la ventana siguiente usando la
distancia de variación total:

	d(P, Q) = 1/2 · Σ |P(s) - Q(s)|

Si d > umbral y pasaron al menos enfriamiento ventanas desde el último
corte, la ventana abre un bloque nuevo. Si no, se suma al bloque en curso.

Las longitudes de bloque no se transmiten: todos los compresores son
autodelimitados, así que cualquier segmentación se decodifica igual.
*/
package bloques

import (
	"math"

	"github.com/cbiale/evocom/tipos"
)

// TamanoVentana es la granularidad de la segmentación agrupada
const TamanoVentana = 64

// Segmento es el intervalo [Inicio, Fin) de la entrada que forma un bloque
type Segmento struct {
	Inicio int
	Fin    int
}

// Largo retorna la cantidad de unidades del segmento
func (s Segmento) Largo() int {
	return s.Fin - s.Inicio
}

// Segmentacion describe cómo dividir la entrada en bloques
type Segmentacion struct {
	Metodo       tipos.MetodoSegmentacion `json:"metodo"`
	TamanoFijo   int                      `json:"tamano_fijo"`
	Umbral       float64                  `json:"umbral"`
	Enfriamiento int                      `json:"enfriamiento"`
}

// SegmentacionPorDefecto retorna bloques fijos de 256 unidades
func SegmentacionPorDefecto() Segmentacion {
	return Segmentacion{
		Metodo:       tipos.SegmentacionFija,
		TamanoFijo:   256,
		Umbral:       0.1,
		Enfriamiento: 2,
	}
}

// Segmentar divide datos según el método configurado
func (s Segmentacion) Segmentar(datos tipos.Bloque) []Segmento {
	if s.Metodo == tipos.SegmentacionAgrupada {
		return SegmentarAgrupado(datos, s.Umbral, s.Enfriamiento)
	}
	return SegmentarFijo(len(datos), s.TamanoFijo)
}

// SegmentarFijo divide total unidades en bloques de tamano; el último absorbe el resto
func SegmentarFijo(total, tamano int) []Segmento {
	if total == 0 {
		return nil
	}
	if tamano <= 0 || total < tamano {
		return []Segmento{{0, total}}
	}

	cantidad := total / tamano
	segmentos := make([]Segmento, cantidad)
	for i := range segmentos {
		segmentos[i] = Segmento{i * tamano, (i + 1) * tamano}
	}
	segmentos[cantidad-1].Fin = total
	return segmentos
}

// histograma cuenta apariciones por símbolo
type histograma struct {
	cuentas [tipos.CantidadSimbolos]int
	total   int
}

func (h *histograma) agregar(datos tipos.Bloque) {
	for _, u := range datos {
		h.cuentas[u]++
	}
	h.total += len(datos)
}

func (h *histograma) reiniciar() {
	*h = histograma{}
}

// distanciaVariacionTotal retorna d(P, Q) en [0, 1]
func distanciaVariacionTotal(p, q *histograma) float64 {
	if p.total == 0 || q.total == 0 {
		return 0
	}
	var suma float64
	for s := range p.cuentas {
		suma += math.Abs(float64(p.cuentas[s])/float64(p.total) - float64(q.cuentas[s])/float64(q.total))
	}
	return suma / 2
}

// SegmentarAgrupado corta donde la distribución de símbolos cambia
func SegmentarAgrupado(datos tipos.Bloque, umbral float64, enfriamiento int) []Segmento {
	if len(datos) == 0 {
		return nil
	}

	var segmentos []Segmento
	var actual, ventana histograma
	inicio := 0
	desdeCorte := 0

	for desde := 0; desde < len(datos); desde += TamanoVentana {
		hasta := min(desde+TamanoVentana, len(datos))
		ventana.reiniciar()
		ventana.agregar(datos[desde:hasta])

		if actual.total > 0 && desdeCorte >= enfriamiento && distanciaVariacionTotal(&actual, &ventana) > umbral {
			segmentos = append(segmentos, Segmento{inicio, desde})
			inicio = desde
			actual.reiniciar()
			desdeCorte = 0
		}
		actual.agregar(datos[desde:hasta])
		desdeCorte++
	}
	return append(segmentos, Segmento{inicio, len(datos)})
}
