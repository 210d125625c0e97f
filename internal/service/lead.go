package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/lead-intake/internal/errs"
	"github.com/deppfellow/lead-intake/internal/lib/rpc"
	"github.com/deppfellow/lead-intake/internal/lib/utils"
	"github.com/deppfellow/lead-intake/internal/model"
	"github.com/deppfellow/lead-intake/internal/server"
)

// leadWriteFailed is the only text a caller sees when the write did not
// complete for a reason other than an upstream status.
const leadWriteFailed = "lead write failed"

// Caller is the part of *rpc.Client the service uses.
type Caller interface {
	Call(ctx context.Context, fn string, params any, out any) error
}

type LeadService struct {
	rpc              Caller
	productTypes     []string
	truncateClientIP bool
}

func NewLeadService(s *server.Server) *LeadService {
	return &LeadService{
		rpc:              s.RPC,
		productTypes:     s.Config.Lead.ProductTypes,
		truncateClientIP: s.Config.Lead.TruncateClientIP,
	}
}

// Submit normalizes req and writes it with one log_lead call.
//
// Upstream non-2xx becomes a 502 naming only the status code. Any other
// failure becomes a 500 with a fixed message.
func (s *LeadService) Submit(ctx context.Context, req *model.SubmitLeadRequest, clientIP, userAgent string) (*model.LeadAck, error) {
	logger := zerolog.Ctx(ctx)

	if s.truncateClientIP {
		clientIP = utils.TruncateIP(clientIP)
	}

	params := model.NewLogLeadParams(req, clientIP, userAgent)

	if err := s.checkProductType(params.ProductType); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.rpc.Call(ctx, model.LogLeadFunction, params, &raw); err != nil {
		var statusErr *rpc.StatusError
		if errors.As(err, &statusErr) {
			logger.Warn().
				Int("upstream_status", statusErr.StatusCode).
				Msg("lead write rejected upstream")
			return nil, errs.NewBadGatewayError(fmt.Sprintf("%s: %d", leadWriteFailed, statusErr.StatusCode)).
				WithCause(err)
		}

		logger.Error().Err(err).Msg("lead write failed")
		return nil, errs.NewInternalServerErrorWithMessage(leadWriteFailed).WithCause(err)
	}

	id, err := leadID(raw)
	if err != nil {
		logger.Error().Err(err).Msg("lead write failed")
		return nil, errs.NewInternalServerErrorWithMessage(leadWriteFailed).WithCause(err)
	}

	logger.Info().
		Str("lead_id", id).
		Str("product_type", params.ProductType).
		Msg("lead recorded")

	return &model.LeadAck{OK: true, ID: id}, nil
}

func (s *LeadService) checkProductType(productType string) error {
	if len(s.productTypes) == 0 || slices.Contains(s.productTypes, productType) {
		return nil
	}

	return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{{
		Field: "product_type",
		Error: "must be one of: " + strings.Join(s.productTypes, " "),
	}})
}

// leadID reads the procedure result. A JSON string is used as-is; any other
// non-null scalar keeps its JSON text.
func leadID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		if id == "" {
			return "", errors.New("empty lead id")
		}
		return id, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", errors.Wrap(err, "decode lead id")
	}

	switch value.(type) {
	case float64, bool:
		return string(raw), nil
	default:
		return "", errors.Errorf("unexpected lead id of type %T", value)
	}
}
