package repository

import (
	"time"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// Direcciones para el filtro del historial.
const (
	DirectionIn    = "in"
	DirectionOut   = "out"
	DirectionCount = "count"
)

// HistoryFilter son los filtros de la vista de auditoría del ledger.
type HistoryFilter struct {
	From      *time.Time
	To        *time.Time
	Direction string // "", in, out, count
	Search    string // texto libre sobre código/nombre de SKU, ubicaciones y nota
}

// HistoryEntry es una fila del ledger enriquecida con datos del SKU para la
// vista de auditoría.
type HistoryEntry struct {
	Movement entity.StockMovement
	SKUCode  string
	SKUName  string
	SKUUnit  string
}

// HistoryRepository define el puerto de la proyección de historial
// (solo lectura).
type HistoryRepository interface {
	// ListPage devuelve una página del historial filtrado, más reciente
	// primero. El gran total se computa paginando hasta página corta, nunca
	// truncando en la página visible.
	ListPage(filter HistoryFilter, limit, offset int) ([]*HistoryEntry, error)
}
