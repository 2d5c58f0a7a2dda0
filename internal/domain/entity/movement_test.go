package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

func TestMovementTypeFromLegacyNote(t *testing.T) {
	cases := []struct {
		note string
		want entity.MovementType
	}{
		{"Pembatalan penjualan #123", entity.MovementSaleCancelled},
		{"batal jual", entity.MovementSaleCancelled},
		{"koreksi stok", entity.MovementCorrection},
		{"Stock Opname rak A", entity.MovementCountApplied},
		{"retur barang", entity.MovementReturnIn},
		{"masuk dari pabrik", entity.MovementFactoryIn},
		{"texto cualquiera", entity.MovementOther},
		{"", entity.MovementOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, entity.MovementTypeFromLegacyNote(tc.note), "nota: %q", tc.note)
	}
}

func TestMovementType_Direction(t *testing.T) {
	assert.Equal(t, "in", entity.MovementFactoryIn.Direction())
	assert.Equal(t, "in", entity.MovementSaleCancelled.Direction())
	assert.Equal(t, "out", entity.MovementSaleOut.Direction())
	assert.Equal(t, "count", entity.MovementCountApplied.Direction())
	assert.Equal(t, "", entity.MovementCorrection.Direction(),
		"la dirección de una corrección depende de origen/destino")
}

func TestLocationScope_CaseInsensitive(t *testing.T) {
	scope := entity.NewLocationScope("Rack", " Display ")

	assert.True(t, scope.Contains("rack"))
	assert.True(t, scope.Contains("DISPLAY"))
	assert.False(t, scope.Contains("bodega-central"))
	assert.Equal(t, "rack", scope.Primary())
}

func TestLocationScope_IsInternal(t *testing.T) {
	scope := entity.NewLocationScope("rack", "display")

	interno := &entity.StockMovement{SourceLocation: "rack", DestinationLocation: "display"}
	entrada := &entity.StockMovement{SourceLocation: "factory", DestinationLocation: "rack"}

	assert.True(t, scope.IsInternal(interno))
	assert.False(t, scope.IsInternal(entrada))
}

// El timestamp efectivo prefiere AppliedAt y cae a CreatedAt: todas las
// fuentes de candidato se comparan con la misma regla.
func TestCheckpointCandidate_EffectiveTimestamp(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	applied := created.Add(2 * time.Hour)

	conAplicacion := entity.CheckpointCandidate{AppliedAt: &applied, CreatedAt: created}
	sinAplicacion := entity.CheckpointCandidate{CreatedAt: created}

	assert.Equal(t, applied, conAplicacion.EffectiveTimestamp())
	assert.Equal(t, created, sinAplicacion.EffectiveTimestamp())
}
