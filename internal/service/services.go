package service

import (
	"github.com/deppfellow/lead-intake/internal/server"
)

type Services struct {
	Lead *LeadService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Lead: NewLeadService(s),
	}
}
