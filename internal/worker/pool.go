package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const colaAlertasStock = "forrapos:alertas_stock"

// AlertaStockPayload notifies that a product fell to or below its minimum
// after a committed sale or adjustment. Quantities travel as strings to keep
// decimal precision across the queue.
type AlertaStockPayload struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	StockActual string `json:"stock_actual"`
	StockMinimo string `json:"stock_minimo"`
}

// Dispatcher pushes background jobs onto Redis lists. Producers never block
// on consumers; a full or unavailable queue is the caller's problem to log,
// not to fail on.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, payload AlertaStockPayload) error {
	if d.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, colaAlertasStock, raw).Err(); err != nil {
		log.Error().Err(err).Str("producto_id", payload.ProductoID).Msg("no se pudo encolar alerta de stock")
		return err
	}
	return nil
}

// StartWorkerPool launches size goroutines consuming the alert queue until
// ctx is cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, size int) {
	if rdb == nil || size < 1 {
		return
	}
	for i := 0; i < size; i++ {
		go consumeAlertas(ctx, rdb, i)
	}
	log.Info().Int("workers", size).Msg("pool de alertas de stock iniciado")
}

func consumeAlertas(ctx context.Context, rdb *redis.Client, id int) {
	for {
		res, err := rdb.BRPop(ctx, 5*time.Second, colaAlertasStock).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Int("worker", id).Msg("error leyendo cola de alertas")
			time.Sleep(time.Second)
			continue
		}
		// BRPOP returns [key, value]
		if len(res) < 2 {
			continue
		}
		var payload AlertaStockPayload
		if err := json.Unmarshal([]byte(res[1]), &payload); err != nil {
			log.Error().Err(err).Msg("payload de alerta ilegible")
			continue
		}
		log.Warn().
			Str("producto_id", payload.ProductoID).
			Str("producto", payload.Nombre).
			Str("stock_actual", payload.StockActual).
			Str("stock_minimo", payload.StockMinimo).
			Msg("stock por debajo del mínimo")
	}
}
