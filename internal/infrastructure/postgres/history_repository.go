package postgres

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// HistoryRepository implementación PostgreSQL de la proyección de historial.
// Lee primero la vista v_stock_history; si el esquema desplegado no la tiene
// (42P01), cae al JOIN sobre las tablas base y lo recuerda para las lecturas
// siguientes. Los errores transitorios de red se reintentan con backoff.
type HistoryRepository struct {
	db    Querier
	retry RetryPolicy
	log   *logger.Logger
	// useBase es atómico: el repositorio es compartido por todos los
	// handlers y la detección del 42P01 puede correr concurrente.
	useBase atomic.Bool
}

// NewHistoryRepository crea el repositorio de historial.
func NewHistoryRepository(db Querier, retry RetryPolicy, log *logger.Logger) *HistoryRepository {
	return &HistoryRepository{db: db, retry: retry, log: log}
}

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

// ListPage devuelve una página del historial filtrado, más reciente primero.
func (r *HistoryRepository) ListPage(filter repository.HistoryFilter, limit, offset int) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.retry.Do("history.list", func() error {
		var err error
		entries, err = r.listPage(filter, limit, offset)
		return err
	})
	return entries, err
}

func (r *HistoryRepository) listPage(filter repository.HistoryFilter, limit, offset int) ([]*repository.HistoryEntry, error) {
	useBase := r.useBase.Load()
	entries, err := r.query(useBase, filter, limit, offset)
	if err != nil && !useBase && isUndefinedRelation(err) {
		// La vista no existe en este despliegue: usar las tablas base de ahora en adelante
		r.log.Warn().Err(err).Msg("v_stock_history no existe, usando tablas base")
		r.useBase.Store(true)
		return r.query(true, filter, limit, offset)
	}
	return entries, err
}

func (r *HistoryRepository) query(useBase bool, filter repository.HistoryFilter, limit, offset int) ([]*repository.HistoryEntry, error) {
	source := `v_stock_history v`
	cols := `v.id, v.sku_id, v.movement_type, v.source_location, v.destination_location,
	        v.quantity, v.reference, v.note, v.created_at, v.created_by,
	        v.sku_code, v.sku_name, v.sku_unit`
	prefix := "v."
	if useBase {
		source = `stock_movement_ledger m JOIN skus k ON k.id = m.sku_id`
		cols = `m.id, m.sku_id, m.movement_type, m.source_location, m.destination_location,
		        m.quantity, m.reference, m.note, m.created_at, m.created_by,
		        k.code, k.name, k.unit`
		prefix = "m."
	}

	// Armar WHERE dinámico con argumentos posicionales
	var conditions []string
	var args []any
	argPos := 1

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("%screated_at >= $%d", prefix, argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("%screated_at <= $%d", prefix, argPos))
		args = append(args, *filter.To)
		argPos++
	}
	if types := typesForDirection(filter.Direction); len(types) > 0 {
		conditions = append(conditions, fmt.Sprintf("%smovement_type = ANY($%d)", prefix, argPos))
		args = append(args, types)
		argPos++
	}
	if filter.Search != "" {
		skuCode, skuName := "v.sku_code", "v.sku_name"
		if useBase {
			skuCode, skuName = "k.code", "k.name"
		}
		conditions = append(conditions, fmt.Sprintf(
			"(%s ILIKE $%d OR %s ILIKE $%d OR %ssource_location ILIKE $%d OR %sdestination_location ILIKE $%d OR %snote ILIKE $%d)",
			skuCode, argPos, skuName, argPos, prefix, argPos, prefix, argPos, prefix, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	query := fmt.Sprintf("SELECT %s FROM %s", cols, source)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %screated_at DESC, %sid DESC LIMIT $%d OFFSET $%d",
		prefix, prefix, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(context.Background(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*repository.HistoryEntry
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanHistoryEntry(row pgx.Row) (*repository.HistoryEntry, error) {
	var e repository.HistoryEntry
	var typ string
	err := row.Scan(&e.Movement.ID, &e.Movement.SKUID, &typ,
		&e.Movement.SourceLocation, &e.Movement.DestinationLocation,
		&e.Movement.Quantity, &e.Movement.Reference, &e.Movement.Note,
		&e.Movement.CreatedAt, &e.Movement.CreatedBy,
		&e.SKUCode, &e.SKUName, &e.SKUUnit)
	if err != nil {
		return nil, err
	}
	e.Movement.Type = entity.MovementType(typ)
	return &e, nil
}

// typesForDirection traduce la dirección del filtro a la lista de tipos del
// enum. Dirección vacía no filtra.
func typesForDirection(direction string) []string {
	var types []string
	switch direction {
	case repository.DirectionIn:
		for _, t := range allMovementTypes() {
			if t.Direction() == "in" {
				types = append(types, string(t))
			}
		}
	case repository.DirectionOut:
		for _, t := range allMovementTypes() {
			if t.Direction() == "out" {
				types = append(types, string(t))
			}
		}
	case repository.DirectionCount:
		types = append(types, string(entity.MovementCountApplied))
	}
	return types
}

func allMovementTypes() []entity.MovementType {
	return []entity.MovementType{
		entity.MovementFactoryIn, entity.MovementRackTransferIn,
		entity.MovementRackTransferOut, entity.MovementSaleOut,
		entity.MovementSaleCancelled, entity.MovementReturnIn,
		entity.MovementCountApplied, entity.MovementCorrection,
		entity.MovementOther,
	}
}
