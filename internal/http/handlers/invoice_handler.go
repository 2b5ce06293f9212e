package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahavlova/portfolio-backend/internal/http/handlers/common"
	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/service"
)

// InvoiceHandler собирает фактуры для печати из админки.
type InvoiceHandler struct {
	invoices *service.InvoiceService
}

// NewInvoiceHandler создаёт новый хэндлер.
func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Assemble обрабатывает POST /api/admin/invoices: возвращает собранный
// документ вместе с платёжной строкой.
func (h *InvoiceHandler) Assemble(c *gin.Context) {
	var input models.InvoiceInput
	if err := common.BindAndValidate(c, &input); err != nil {
		common.RespondBadRequest(c, "тело запроса нечитаемо")
		return
	}

	invoice, err := h.invoices.Assemble(input)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// PaymentQR обрабатывает POST /api/admin/invoices/qr: PNG с платёжным
// QR-кодом для печати на фактуре.
func (h *InvoiceHandler) PaymentQR(c *gin.Context) {
	var input models.InvoiceInput
	if err := common.BindAndValidate(c, &input); err != nil {
		common.RespondBadRequest(c, "тело запроса нечитаемо")
		return
	}

	png, err := h.invoices.PaymentQR(input, 256)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
