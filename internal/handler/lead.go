package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/lead-intake/internal/model"
	"github.com/deppfellow/lead-intake/internal/server"
	"github.com/deppfellow/lead-intake/internal/service"
)

type LeadHandler struct {
	Handler
	leadService *service.LeadService
}

func NewLeadHandler(s *server.Server, leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{
		Handler:     NewHandler(s),
		leadService: leadService,
	}
}

// SubmitLead handles POST /api/lead. The client address comes from the
// router's IP extractor.
func (h *LeadHandler) SubmitLead(c echo.Context, req *model.SubmitLeadRequest) (*model.LeadAck, error) {
	return h.leadService.Submit(c.Request().Context(), req, c.RealIP(), c.Request().UserAgent())
}
