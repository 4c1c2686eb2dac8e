/*
## Código de Huffman determinista

Objetivo: construir el mismo código en el compresor y en el descompresor a
partir de una lista de (símbolo, peso), sin transmitir el árbol.

Construcción:
 1. Se crea una hoja por par, en el orden de la lista
 2. Se insertan en un min-heap ordenado por (peso, orden de creación)
 3. Mientras haya más de un nodo: se extraen los dos menores a y b y se
    inserta un nodo interno con peso a+b; a queda a la izquierda (bit 0)
 4. Una lista de un solo símbolo recibe el código de un bit "0"

El orden de creación desempata pesos iguales, así dos listas idénticas
producen códigos idénticos bit a bit.

Decodificación: se recorre el árbol desde la raíz leyendo un bit por nivel
hasta llegar a una hoja.
*/

package huffman

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/cbiale/evocom/flujobits"
	"github.com/cbiale/evocom/tipos"
)

var (
	// ErrSinSimbolos indica que no hay símbolos con los que construir el código
	ErrSinSimbolos = errors.New("huffman: lista de símbolos vacía")
	// ErrPesoCero indica un par con peso cero
	ErrPesoCero = errors.New("huffman: peso cero")
	// ErrSimboloDuplicado indica un símbolo repetido en la lista
	ErrSimboloDuplicado = errors.New("huffman: símbolo duplicado")
	// ErrSimboloDesconocido indica un símbolo sin código asignado
	ErrSimboloDesconocido = errors.New("huffman: símbolo sin código")
	// ErrCodigoDemasiadoLargo indica un código de más de 64 bits
	ErrCodigoDemasiadoLargo = errors.New("huffman: código de más de 64 bits")
)

// ParPeso asocia un símbolo con su peso relativo
type ParPeso struct {
	Simbolo tipos.Unidad
	Peso    uint64
}

type palabra struct {
	valor    uint64
	longitud int
}

type nodo struct {
	peso      uint64
	orden     int
	simbolo   tipos.Unidad
	hoja      bool
	izquierda *nodo
	derecha   *nodo
}

// Codigo es un código de Huffman listo para codificar y decodificar
type Codigo struct {
	raiz     *nodo
	palabras [tipos.CantidadSimbolos]palabra
	presente [tipos.CantidadSimbolos]bool
}

// Nuevo construye el código para la lista de pares
func Nuevo(pares []ParPeso) (*Codigo, error) {
	if len(pares) == 0 {
		return nil, ErrSinSimbolos
	}

	c := &Codigo{}
	cola := make(colaNodos, 0, len(pares))
	for i, p := range pares {
		if p.Peso == 0 {
			return nil, fmt.Errorf("%w: símbolo %d", ErrPesoCero, p.Simbolo)
		}
		if c.presente[p.Simbolo] {
			return nil, fmt.Errorf("%w: %d", ErrSimboloDuplicado, p.Simbolo)
		}
		c.presente[p.Simbolo] = true
		cola = append(cola, &nodo{peso: p.Peso, orden: i, simbolo: p.Simbolo, hoja: true})
	}
	heap.Init(&cola)

	orden := len(pares)
	for cola.Len() > 1 {
		a := heap.Pop(&cola).(*nodo)
		b := heap.Pop(&cola).(*nodo)
		heap.Push(&cola, &nodo{peso: a.peso + b.peso, orden: orden, izquierda: a, derecha: b})
		orden++
	}
	c.raiz = heap.Pop(&cola).(*nodo)

	if c.raiz.hoja {
		// Un solo símbolo: código "0"
		c.palabras[c.raiz.simbolo] = palabra{valor: 0, longitud: 1}
		return c, nil
	}
	if err := c.asignar(c.raiz, 0, 0); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Codigo) asignar(n *nodo, valor uint64, longitud int) error {
	if n.hoja {
		c.palabras[n.simbolo] = palabra{valor: valor, longitud: longitud}
		return nil
	}
	if longitud == 64 {
		return ErrCodigoDemasiadoLargo
	}
	if err := c.asignar(n.izquierda, valor<<1, longitud+1); err != nil {
		return err
	}
	return c.asignar(n.derecha, valor<<1|1, longitud+1)
}

// Longitud retorna la cantidad de bits del código de s, o 0 si no tiene código
func (c *Codigo) Longitud(s tipos.Unidad) int {
	if !c.presente[s] {
		return 0
	}
	return c.palabras[s].longitud
}

// Codificar escribe el código de s
func (c *Codigo) Codificar(w flujobits.EscritorBits, s tipos.Unidad) error {
	if !c.presente[s] {
		return fmt.Errorf("%w: %d", ErrSimboloDesconocido, s)
	}
	p := c.palabras[s]
	w.EscribirBits(p.valor, p.longitud)
	return nil
}

// Decodificar lee bits hasta completar un símbolo
func (c *Codigo) Decodificar(r flujobits.LectorBits) (tipos.Unidad, error) {
	n := c.raiz
	if n.hoja {
		if _, err := r.LeerBit(); err != nil {
			return 0, err
		}
		return n.simbolo, nil
	}
	for !n.hoja {
		bit, err := r.LeerBit()
		if err != nil {
			return 0, err
		}
		if bit {
			n = n.derecha
		} else {
			n = n.izquierda
		}
	}
	return n.simbolo, nil
}

// colaNodos implementa heap.Interface ordenando por (peso, orden)
type colaNodos []*nodo

func (q colaNodos) Len() int { return len(q) }

func (q colaNodos) Less(i, j int) bool {
	if q[i].peso != q[j].peso {
		return q[i].peso < q[j].peso
	}
	return q[i].orden < q[j].orden
}

func (q colaNodos) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *colaNodos) Push(x any) { *q = append(*q, x.(*nodo)) }

func (q *colaNodos) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
