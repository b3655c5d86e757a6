package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"gamedb/internal/diag"
	"gamedb/internal/game"
	"gamedb/internal/record"
)

// на одну запись диагностик бывает мало, 32 хватает с запасом
const recordBagCap = 32

// coerceResult содержит результат приведения одной записи
type coerceResult struct {
	Game game.Game
	OK   bool
	Bag  *diag.Bag
}

// coerceRecords приводит записи к типизированным играм параллельно.
// Результаты идут в порядке записей, так что вывод не зависит от
// числа воркеров.
func coerceRecords(ctx context.Context, records []*record.Record, jobs int) ([]coerceResult, error) {
	results := make([]coerceResult, len(records))
	if len(records) == 0 {
		return results, nil
	}

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(records)))

	for i, rec := range records {
		g.Go(func(i int, rec *record.Record) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(recordBagCap)
				gm, ok := game.FromRecord(rec, &diag.BagReporter{Bag: bag})

				// Сохраняем результат (мьютекс не нужен — индекс i уникален)
				results[i] = coerceResult{Game: gm, OK: ok, Bag: bag}
				return nil
			}
		}(i, rec))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
