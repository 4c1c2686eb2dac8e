/*
## Algoritmo de Compresión Huffman con frecuencias cuantizadas

Objetivo: transmitir un código de Huffman por bloque sin transmitir el árbol,
usando solo 48 bits de tabla de frecuencias.

Formato:
• 16 grupos x 3 bits: peso - 1 (0..6) si el grupo está presente, 7 si
ninguna unidad del grupo aparece en el bloque
• Rice(n): número de unidades
• n códigos de Huffman

Algoritmo:
 1. Contar frecuencias de las 256 unidades posibles
 2. Tomar min y max sobre las unidades que aparecen y remapear cada frecuencia
    al rango [1, 7]: 1 + (f - min) * 6 / (max - min); si min == max todas valen 1
 3. Dividir las 256 unidades en 16 grupos de 16 valores consecutivos; el peso
    del grupo es el máximo remapeado de sus unidades, o ausente si ninguna aparece
 4. Expandir: cada unidad de un grupo presente recibe el peso del grupo
 5. Construir el código de Huffman sobre la expansión (compresor y
    descompresor hacen la misma expansión y obtienen el mismo código)

Una expansión vacía solo puede venir de un bloque vacío o de una carga
corrupta y es un error explícito.

Complejidad: O(n + 256 log 256) tiempo
*/

package compresor

import (
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/huffman"
	"github.com/cbiale/evocom/tipos"
)

const (
	cantidadGrupos           = 16
	simbolosPorGrupo         = tipos.CantidadSimbolos / cantidadGrupos
	bitsPesoGrupo            = 3
	maxFrecuenciaCodificable = 1<<bitsPesoGrupo - 1

	// codigoGrupoAusente es el único valor de 3 bits que no representa un peso
	codigoGrupoAusente = maxFrecuenciaCodificable
)

// pesoGrupo distingue un grupo ausente de uno presente con su peso en [1, 7]
type pesoGrupo struct {
	presente bool
	peso     uint8
}

// reporteFrecuencias es la tabla de 16 pesos que viaja en la carga
type reporteFrecuencias [cantidadGrupos]pesoGrupo

// CompresorHuffman implementa Huffman con la tabla de frecuencias cuantizada
type CompresorHuffman struct{}

// nuevoReporteFrecuencias cuantiza las frecuencias del bloque en 16 grupos
func nuevoReporteFrecuencias(bloque tipos.Bloque) reporteFrecuencias {
	var frecuencias [tipos.CantidadSimbolos]uint64
	for _, v := range bloque {
		frecuencias[v]++
	}

	var minimo, maximo uint64
	for _, f := range frecuencias {
		if f == 0 {
			continue
		}
		if minimo == 0 || f < minimo {
			minimo = f
		}
		maximo = max(maximo, f)
	}

	var reporte reporteFrecuencias
	for s, f := range frecuencias {
		if f == 0 {
			continue
		}
		peso := uint8(1)
		if maximo > minimo {
			peso = uint8(1 + (f-minimo)*(maxFrecuenciaCodificable-1)/(maximo-minimo))
		}
		g := &reporte[s/simbolosPorGrupo]
		g.presente = true
		g.peso = max(g.peso, peso)
	}
	return reporte
}

// escribir serializa los 16 pesos en 3 bits cada uno
func (rf reporteFrecuencias) escribir(w flujobits.EscritorBits) {
	for _, g := range rf {
		if !g.presente {
			w.EscribirBits(codigoGrupoAusente, bitsPesoGrupo)
			continue
		}
		w.EscribirBits(uint64(g.peso-1), bitsPesoGrupo)
	}
}

// leerReporteFrecuencias es la inversa de escribir
func leerReporteFrecuencias(r flujobits.LectorBits) (reporteFrecuencias, error) {
	var reporte reporteFrecuencias
	for i := range reporte {
		v, err := r.LeerBits(bitsPesoGrupo)
		if err != nil {
			return reporte, fmt.Errorf("error leyendo peso del grupo %d: %w", i, err)
		}
		if v == codigoGrupoAusente {
			continue
		}
		reporte[i] = pesoGrupo{presente: true, peso: uint8(v) + 1}
	}
	return reporte, nil
}

// expandir asigna a cada unidad de un grupo presente el peso del grupo
func (rf reporteFrecuencias) expandir() ([]huffman.ParPeso, error) {
	var pares []huffman.ParPeso
	for g, grupo := range rf {
		if !grupo.presente {
			continue
		}
		for s := g * simbolosPorGrupo; s < (g+1)*simbolosPorGrupo; s++ {
			pares = append(pares, huffman.ParPeso{Simbolo: tipos.Unidad(s), Peso: uint64(grupo.peso)})
		}
	}
	if len(pares) == 0 {
		return nil, ErrFrecuenciasVacias
	}
	return pares, nil
}

func (rf reporteFrecuencias) codigo() (*huffman.Codigo, error) {
	pares, err := rf.expandir()
	if err != nil {
		return nil, err
	}
	return huffman.Nuevo(pares)
}

// Comprimir escribe la tabla cuantizada, la cantidad de unidades y los códigos
func (c *CompresorHuffman) Comprimir(bloque tipos.Bloque, w flujobits.EscritorBits) error {
	reporte := nuevoReporteFrecuencias(bloque)
	codigo, err := reporte.codigo()
	if err != nil {
		return err
	}

	reporte.escribir(w)
	if err := flujobits.EscribirRice(w, uint64(len(bloque))); err != nil {
		return err
	}
	for _, v := range bloque {
		if err := codigo.Codificar(w, v); err != nil {
			return err
		}
	}
	return nil
}

// Descomprimir reconstruye el código desde la tabla y decodifica n unidades
func (c *CompresorHuffman) Descomprimir(r flujobits.LectorBits) (tipos.Bloque, error) {
	reporte, err := leerReporteFrecuencias(r)
	if err != nil {
		return nil, err
	}
	codigo, err := reporte.codigo()
	if err != nil {
		return nil, err
	}

	n, err := leerLongitud(r, "cantidad de unidades")
	if err != nil {
		return nil, err
	}
	bloque := reservar(n)
	for i := 0; i < n; i++ {
		u, err := codigo.Decodificar(r)
		if err != nil {
			return nil, fmt.Errorf("error decodificando unidad %d: %w", i, err)
		}
		bloque = append(bloque, u)
	}
	return bloque, nil
}
