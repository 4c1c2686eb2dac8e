package tipos

// Unidad es el símbolo mínimo de compresión: un byte
type Unidad = byte

// Bloque es una secuencia contigua de unidades que se comprime con una sola receta
type Bloque = []Unidad

// BitsPorUnidad es el ancho en bits de una Unidad
const BitsPorUnidad = 8

// CantidadSimbolos es la cantidad de valores distintos que puede tomar una Unidad
const CantidadSimbolos = 1 << BitsPorUnidad
