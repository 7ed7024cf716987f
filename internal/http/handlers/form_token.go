package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/booking/form-token
//
// Issues the signed render-time token the booking form embeds; the gate
// verifies it on submit to measure the load-to-submit age.
func (a *API) FormToken(c *gin.Context) {
	token, err := a.Tokens.Issue()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo generar el token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form_token": token})
}
