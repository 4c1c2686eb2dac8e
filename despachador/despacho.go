/*
## Algoritmo de despacho

Despachar ejecuta n tareas indexadas y devuelve sus resultados en orden de
índice, sin importar el orden en que terminan.

 1. Con limite <= 1 las tareas corren en secuencia y la primera falla corta.
 2. Con limite > 1 corren en un errgroup con SetLimit(limite). Cada tarea
    escribe solo su propia posición del resultado, así no hace falta mutex.
 3. El primer error cancela el contexto del grupo; las tareas pendientes ven
    ctx.Err() y terminan.
*/
package despachador

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Tarea procesa el elemento i
type Tarea[T any] func(ctx context.Context, i int) (T, error)

// Despachar corre n tareas con a lo sumo limite en paralelo y retorna los resultados ordenados por índice
func Despachar[T any](ctx context.Context, n, limite int, tarea Tarea[T]) ([]T, error) {
	resultados := make([]T, n)
	if n == 0 {
		return resultados, nil
	}

	if limite <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := tarea(ctx, i)
			if err != nil {
				return nil, fmt.Errorf("error en tarea %d: %w", i, err)
			}
			resultados[i] = r
		}
		return resultados, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limite)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r, err := tarea(gCtx, i)
			if err != nil {
				return fmt.Errorf("error en tarea %d: %w", i, err)
			}
			resultados[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resultados, nil
}
