package handler

import (
	"net/http"

	"forrapos/internal/apierror"
	"forrapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultaPreciosHandler struct{ svc service.PresentacionService }

func NewConsultaPreciosHandler(svc service.PresentacionService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// PorCodigo resuelve precio y presentación a partir de un código escaneado.
// Sirve desde el cache de Redis cuando la entrada está caliente.
func (h *ConsultaPreciosHandler) PorCodigo(c *gin.Context) {
	codigo := c.Param("codigo")
	if codigo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("código requerido"))
		return
	}
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), codigo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
