/*
## Caché de recetas

Guarda la mejor receta encontrada por bloque para no repetir la evolución
cuando el mismo contenido vuelve a comprimirse.

Clave (16 bytes):
  - xxhash64 del bloque, big endian
  - longitud del bloque, big endian

Valor: EntradaCache serializada con gob.

Dos bloques distintos con el mismo hash y longitud comparten entrada; quien
lee la caché vuelve a evaluar la receta contra el bloque antes de usarla.
*/
package almacenamiento

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble"

	"github.com/cbiale/evocom/tipos"
)

// EntradaCache es el valor persistido por bloque
type EntradaCache struct {
	Transformaciones []tipos.CodigoTransformacion
	Compresion       tipos.CodigoCompresion
	Aptitud          float64
}

// CacheRecetas persiste recetas en una base pebble. Es segura para uso concurrente.
type CacheRecetas struct {
	db *pebble.DB
}

// AbrirCacheRecetas abre (o crea) la caché en el directorio indicado
func AbrirCacheRecetas(directorio string) (*CacheRecetas, error) {
	db, err := pebble.Open(directorio, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("error abriendo caché en %s: %w", directorio, err)
	}
	return &CacheRecetas{db: db}, nil
}

func claveBloque(bloque tipos.Bloque) []byte {
	clave := make([]byte, 16)
	binary.BigEndian.PutUint64(clave[:8], xxhash.Sum64(bloque))
	binary.BigEndian.PutUint64(clave[8:], uint64(len(bloque)))
	return clave
}

// Obtener busca la receta guardada para el bloque. La receta vuelve con la aptitud guardada.
func (c *CacheRecetas) Obtener(bloque tipos.Bloque) (tipos.Receta, bool, error) {
	valor, closer, err := c.db.Get(claveBloque(bloque))
	if errors.Is(err, pebble.ErrNotFound) {
		return tipos.Receta{}, false, nil
	}
	if err != nil {
		return tipos.Receta{}, false, fmt.Errorf("error leyendo caché: %w", err)
	}
	defer closer.Close()

	var entrada EntradaCache
	if err := tipos.DeserializarGob(valor, &entrada); err != nil {
		return tipos.Receta{}, false, fmt.Errorf("error decodificando entrada de caché: %w", err)
	}
	receta := tipos.NuevaReceta(entrada.Compresion, entrada.Transformaciones...)
	if err := receta.Valida(); err != nil {
		return tipos.Receta{}, false, fmt.Errorf("entrada de caché inválida: %w", err)
	}
	receta.FijarAptitud(entrada.Aptitud)
	return receta, true, nil
}

// Guardar persiste la receta para el bloque. La receta debe estar evaluada.
func (c *CacheRecetas) Guardar(bloque tipos.Bloque, receta tipos.Receta) error {
	aptitud, ok := receta.Aptitud()
	if !ok {
		return fmt.Errorf("receta %v sin evaluar", receta)
	}
	valor, err := tipos.SerializarGob(EntradaCache{
		Transformaciones: receta.Transformaciones,
		Compresion:       receta.Compresion,
		Aptitud:          aptitud,
	})
	if err != nil {
		return fmt.Errorf("error codificando entrada de caché: %w", err)
	}
	if err := c.db.Set(claveBloque(bloque), valor, pebble.NoSync); err != nil {
		return fmt.Errorf("error escribiendo caché: %w", err)
	}
	return nil
}

// Cerrar sincroniza y cierra la base
func (c *CacheRecetas) Cerrar() error {
	if err := c.db.Flush(); err != nil {
		c.db.Close()
		return fmt.Errorf("error sincronizando caché: %w", err)
	}
	return c.db.Close()
}
