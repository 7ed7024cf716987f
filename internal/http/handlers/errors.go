package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/http/middleware"
)

// RespondDomainError maps domain errors to HTTP responses. Every error the
// services can raise lands here, so nothing ever crosses the boundary as a
// panic or an unmapped 500.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondCoded(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondCoded(c, http.StatusNotFound, "not_found", "no se encontró el recurso solicitado")
	case domain.IsExpired(err):
		respondCoded(c, http.StatusGone, "expired", "la reserva ha expirado, seleccione los asientos nuevamente")
	case domain.IsRateLimited(err):
		var rl domain.RateLimitedError
		retryAfter := 1
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			if secs := int(rl.RetryAfter.Seconds()); secs > 0 {
				retryAfter = secs
			}
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		respondCoded(c, http.StatusTooManyRequests, "rate_limited", "demasiadas solicitudes, inténtelo más tarde")
	case domain.IsBotSuspected(err):
		respondCoded(c, http.StatusForbidden, "forbidden", "solicitud rechazada")
	case domain.IsSuspiciousInput(err):
		respondCoded(c, http.StatusBadRequest, "bad_request", "solicitud no válida")
	case domain.IsTimeout(err):
		respondCoded(c, http.StatusRequestTimeout, "timeout", "el servicio tardó demasiado en responder, inténtelo de nuevo")
	case domain.IsUpstream(err):
		respondCoded(c, http.StatusBadGateway, "upstream_error", "el servicio del transportador no está disponible")
	default:
		respondCoded(c, http.StatusInternalServerError, "internal_error", "ocurrió un error inesperado")
	}
}

func respondCoded(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}
