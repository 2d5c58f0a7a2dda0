package entity

import "strings"

// LocationScope define el conjunto de ubicaciones que cuentan como stock
// propio para una consulta (ej. rack + exhibición). Se construye desde
// configuración y se pasa explícitamente a las funciones del núcleo; no hay
// constantes globales de ubicación. La comparación es case-insensitive.
type LocationScope struct {
	names []string // en minúsculas, orden de configuración
}

// NewLocationScope construye el alcance. El primer nombre es la ubicación
// primaria (donde se aplican correcciones de resync).
func NewLocationScope(names ...string) LocationScope {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			lowered = append(lowered, strings.ToLower(n))
		}
	}
	return LocationScope{names: lowered}
}

// Contains indica si la ubicación pertenece al alcance.
func (s LocationScope) Contains(location string) bool {
	l := strings.ToLower(strings.TrimSpace(location))
	for _, n := range s.names {
		if n == l {
			return true
		}
	}
	return false
}

// Primary devuelve la ubicación primaria del alcance ("" si está vacío).
func (s LocationScope) Primary() string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[0]
}

// Names devuelve las ubicaciones normalizadas (para cláusulas SQL = ANY).
func (s LocationScope) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// IsInternal indica si un movimiento ocurre por completo dentro del alcance
// (reacomodo interno): neutro para entradas y salidas.
func (s LocationScope) IsInternal(m *StockMovement) bool {
	return s.Contains(m.SourceLocation) && s.Contains(m.DestinationLocation)
}

// IsEmpty indica si el alcance no tiene ubicaciones.
func (s LocationScope) IsEmpty() bool { return len(s.names) == 0 }
