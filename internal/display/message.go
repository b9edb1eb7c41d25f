package display

import (
	"errors"

	"github.com/red-movilidad/red-cli/internal/api"
)

// Generic transport error messages, one per view
const (
	MsgRoutesError       = "Error al obtener los recorridos"
	MsgArrivalsError     = "Error al obtener los datos del bus"
	MsgChargePointsError = "Error al obtener los puntos de carga"
	MsgGeocodeError      = "Error al buscar la dirección"
	MsgNoResults         = "No se encontraron resultados."
)

// UserMessage maps an error to the text a rider should see.
// Validation and application errors carry their own message; anything else
// collapses to fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve *api.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var se *api.StatusError
	if errors.As(err, &se) {
		return se.Description
	}

	if errors.Is(err, api.ErrNoResults) {
		return MsgNoResults
	}

	return fallback
}
