package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// HistoryUseCase expone la proyección de auditoría del ledger: listado
// filtrado paginado y el gran total exacto sobre el conjunto filtrado
// completo.
type HistoryUseCase struct {
	history  repository.HistoryRepository
	pageSize int
	log      *logger.Logger
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(history repository.HistoryRepository, pageSize int, log *logger.Logger) *HistoryUseCase {
	return &HistoryUseCase{history: history, pageSize: pageSize, log: log}
}

// List devuelve una página del historial filtrado, más reciente primero.
// Un fallo de lectura degrada a lista vacía con warning; la vista no cae.
func (uc *HistoryUseCase) List(_ context.Context, q dto.HistoryQuery) (*dto.HistoryListResponse, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()

	entries, err := uc.history.ListPage(filter, q.Limit, q.Offset)
	if err != nil {
		uc.log.Warn().Err(err).Msg("historial degradado a vacío")
		entries = nil
	}

	resp := &dto.HistoryListResponse{
		Entries: make([]dto.HistoryEntryDTO, 0, len(entries)),
		Page:    dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toHistoryDTO(e))
	}
	return resp, nil
}

// GrandTotal pagina el conjunto filtrado completo y suma: el total mostrado
// debe ser la suma verdadera bajo el filtro activo, no la de una página
// truncada.
func (uc *HistoryUseCase) GrandTotal(_ context.Context, q dto.HistoryQuery) (*dto.GrandTotalResponse, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	resp := &dto.GrandTotalResponse{
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}
	for offset := 0; ; offset += uc.pageSize {
		page, err := uc.history.ListPage(filter, uc.pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, e := range page {
			resp.Rows++
			switch e.Movement.Type.Direction() {
			case repository.DirectionIn:
				resp.TotalIn = resp.TotalIn.Add(e.Movement.Quantity)
			case repository.DirectionOut:
				resp.TotalOut = resp.TotalOut.Add(e.Movement.Quantity)
			case repository.DirectionCount:
				resp.CountEvents++
			}
		}
		if len(page) < uc.pageSize {
			break
		}
	}
	return resp, nil
}

func buildFilter(q dto.HistoryQuery) (repository.HistoryFilter, error) {
	filter := repository.HistoryFilter{Search: q.Search}

	switch q.Direction {
	case "", repository.DirectionIn, repository.DirectionOut, repository.DirectionCount:
		filter.Direction = q.Direction
	default:
		return filter, domain.ErrInvalidInput
	}

	if q.From != "" {
		t, err := parseDate(q.From)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.From = &t
	}
	if q.To != "" {
		t, err := parseDate(q.To)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.To = &t
	}
	return filter, nil
}

// parseDate acepta RFC3339 o fecha simple YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func toHistoryDTO(e *repository.HistoryEntry) dto.HistoryEntryDTO {
	m := e.Movement
	return dto.HistoryEntryDTO{
		ID:                  m.ID,
		SKUID:               m.SKUID,
		SKUCode:             e.SKUCode,
		SKUName:             e.SKUName,
		Type:                string(m.Type),
		SourceLocation:      m.SourceLocation,
		DestinationLocation: m.DestinationLocation,
		Quantity:            m.Quantity,
		Note:                m.Note,
		CreatedAt:           m.CreatedAt,
	}
}
