package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// GET /api/reservations/:id/ticket
//
// E-ticket PDF, available once the reservation is confirmed.
func (a *API) ReservationTicket(c *gin.Context) {
	res, err := a.Flow.Reservations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if res.Status != models.ReservationConfirmed {
		RespondError(c, http.StatusConflict, "la reserva aún no está confirmada", nil)
		return
	}

	pdfBytes, filename, err := buildTicketPDF(res)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "no se pudo generar el tiquete", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func buildTicketPDF(res models.Reservation) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tiquete electrónico", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TIQUETE ELECTRONICO")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reserva        : %s", res.ID),
		fmt.Sprintf("Viaje          : %s", res.TripID),
		fmt.Sprintf("Ruta           : %s -> %s", res.TripInfo.Origin, res.TripInfo.Destination),
		fmt.Sprintf("Fecha          : %s", res.TripInfo.Date),
		fmt.Sprintf("Salida         : %s", res.TripInfo.DepartureTime),
		fmt.Sprintf("Servicio       : %s", res.TripInfo.Service),
		fmt.Sprintf("Asientos       : %s", strings.Join(res.Seats, ", ")),
		fmt.Sprintf("Total          : %s", utils.FormatCOP(res.TotalPrice)),
		fmt.Sprintf("Emitido        : %s", utils.FormatDate(res.CreatedAt)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	if len(res.Passengers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Pasajeros")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, p := range res.Passengers {
			pdf.Cell(0, 6, fmt.Sprintf("%s  %s %s  %s %s",
				p.SeatNumber, p.FirstName, p.LastName, p.DocumentType, p.DocumentNumber))
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Presente este tiquete junto con su documento de identidad al abordar.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("TIQUETE_%s.pdf", res.ID), nil
}
