package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
)

// KardexFilter filtros del kardex de un componente. Limit <= 0 significa sin límite.
type KardexFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementDelta delta de un movimiento, usado para reconstruir saldos no persistidos.
type MovementDelta struct {
	ID    string
	Delta decimal.Decimal
}

// KardexTotals sumas de entradas y salidas (en valor absoluto) dentro del rango filtrado.
type KardexTotals struct {
	In  decimal.Decimal
	Out decimal.Decimal
}

// MovementRepository puerto del ledger. Solo inserta y lee: el ledger es append-only.
// El orden cronológico lo da Movement.Sequence (orden de aplicación), no la fecha.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// ListKardex movimientos del componente del más reciente al más antiguo, con nombre del actor
	// y números de documentos enlazados, más el total sin paginar.
	ListKardex(ctx context.Context, componentID string, filter KardexFilter) ([]*entity.KardexEntry, int, error)
	// SumKardex Σentrada y Σsalida del componente; respeta From/To e ignora la paginación.
	SumKardex(ctx context.Context, componentID string, filter KardexFilter) (KardexTotals, error)
	// ListDeltas historia completa de deltas del componente, del más reciente al más antiguo.
	ListDeltas(ctx context.Context, componentID string) ([]MovementDelta, error)
	// CountByTypeSince cantidad de movimientos por tipo desde `since` (dashboard).
	CountByTypeSince(ctx context.Context, since time.Time) (map[entity.MovementType]int, error)
}
