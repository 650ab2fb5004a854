package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	appdelivery "github.com/tu-usuario/retail-api/internal/application/delivery"
	"github.com/tu-usuario/retail-api/internal/application/dto"
)

// DeliveryHandler maneja las peticiones HTTP del motor de entregas (protegido).
type DeliveryHandler struct {
	uc    *appdelivery.UseCase
	pdfUC *appdelivery.PDFUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *appdelivery.UseCase, pdfUC *appdelivery.PDFUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear entrega (descuenta stock atómicamente)
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "Entrega con ítems"
// @Success      201   {object}  dto.DataResponse{data=dto.DeliveryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DataResponse{Message: "entrega creada", Data: out})
}

// GetByID godoc
// @Summary      Obtener entrega por ID con sus ítems
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la entrega"
// @Success      200  {object}  dto.DataResponse{data=dto.DeliveryResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id inválido"})
	}
	out, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DataResponse{Message: "entrega encontrada", Data: out})
}

// ClientHistory godoc
// @Summary      Historial de entregas de un cliente (más recientes primero)
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        clientId  path   int  true   "ID del cliente"
// @Param        page      query  int  false  "Página"  default(1)
// @Param        limit     query  int  false  "Límite"  default(10)
// @Success      200       {object}  dto.PagedResponse{data=[]dto.DeliveryResponse}
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/deliveries/client/{clientId}/history [get]
func (h *DeliveryHandler) ClientHistory(c *fiber.Ctx) error {
	clientID, err := c.ParamsInt("clientId")
	if err != nil || clientID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "clientId inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "parámetros de paginación inválidos"})
	}
	page.Clamp()
	out, total, err := h.uc.GetClientHistory(c.Context(), int64(clientID), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PagedResponse{
		Message:    "historial de entregas",
		Data:       out,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
	})
}

// GetPDF godoc
// @Summary      Descargar la remisión de la entrega en PDF
// @Tags         deliveries
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la entrega"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/pdf [get]
func (h *DeliveryHandler) GetPDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id inválido"})
	}
	pdfBytes, err := h.pdfUC.GenerateNote(c.Context(), int64(id))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="remision-%d.pdf"`, id))
	return c.Send(pdfBytes)
}
