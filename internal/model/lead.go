package model

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/deppfellow/lead-intake/internal/lib/utils"
)

const (
	// LogLeadFunction is the remote procedure that stores a lead.
	LogLeadFunction = "log_lead"

	DefaultConsentScope   = "service"
	DefaultConsentVersion = "pp-v1.0"

	// MaxUserAgentLength caps the User-Agent header fallback.
	MaxUserAgentLength = 200
)

var validate = newValidator()

// newValidator reports fields by their json name so field errors match the
// submitted payload.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return v
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// SubmitLeadRequest is the body of POST /api/lead.
//
// Optional strings accept null or absence and normalize to "". ProductType
// must be present but may be empty.
type SubmitLeadRequest struct {
	Email          string         `json:"email" validate:"required,email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	City           string         `json:"city"`
	State          string         `json:"state"`
	Zip            string         `json:"zip"`
	ProductType    *string        `json:"product_type" validate:"required"`
	ATSScore       *Score         `json:"ats_score"`
	ConsentScopes  Scopes         `json:"consent_scopes"`
	ConsentVersion string         `json:"consent_version"`
	GPC            Flag           `json:"gpc"`
	UTM            map[string]any `json:"utm"`
	Referrer       string         `json:"referrer"`
	IPTrunc        string         `json:"ip_trunc"`
	UA             string         `json:"ua"`
}

// submitLeadKeys holds the exact json keys of SubmitLeadRequest.
var submitLeadKeys = func() map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(SubmitLeadRequest{})
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			keys[name] = true
		}
	}
	return keys
}()

// UnmarshalJSON matches keys case-sensitively. encoding/json would bind
// "EMAIL" to Email; here any key that is not an exact field name is ignored
// like any other unknown key.
func (r *SubmitLeadRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}

	for key := range fields {
		if !submitLeadKeys[key] {
			delete(fields, key)
		}
	}

	filtered, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	type plain SubmitLeadRequest
	return json.Unmarshal(filtered, (*plain)(r))
}

func (r *SubmitLeadRequest) Validate() error {
	return validate.Struct(r)
}

// LeadAck is returned once the remote procedure assigned an id.
type LeadAck struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// LogLeadParams is the argument object of the log_lead procedure. Every key
// is always present; ATSScore is the only one that may be null.
type LogLeadParams struct {
	Email          string         `json:"p_email"`
	FirstName      string         `json:"p_first_name"`
	LastName       string         `json:"p_last_name"`
	City           string         `json:"p_city"`
	State          string         `json:"p_state"`
	Zip            string         `json:"p_zip"`
	ProductType    string         `json:"p_product_type"`
	ATSScore       *float64       `json:"p_ats_score"`
	ConsentScopes  []string       `json:"p_consent_scopes"`
	ConsentVersion string         `json:"p_consent_version"`
	GPC            bool           `json:"p_gpc"`
	UTM            map[string]any `json:"p_utm"`
	Referrer       string         `json:"p_referrer"`
	IPTrunc        string         `json:"p_ip_trunc"`
	UA             string         `json:"p_ua"`
}

// NewLogLeadParams normalizes a validated submission into procedure
// parameters. clientIP and userAgent come from the inbound request and are
// only used when the submission does not carry ip_trunc / ua itself.
func NewLogLeadParams(req *SubmitLeadRequest, clientIP, userAgent string) LogLeadParams {
	scopes := []string(req.ConsentScopes)
	if len(scopes) == 0 {
		scopes = []string{DefaultConsentScope}
	} else {
		scopes = append([]string(nil), scopes...)
	}

	utm := make(map[string]any, len(req.UTM))
	for k, v := range req.UTM {
		utm[k] = v
	}

	var productType string
	if req.ProductType != nil {
		productType = *req.ProductType
	}

	var score *float64
	if req.ATSScore != nil {
		v := float64(*req.ATSScore)
		score = &v
	}

	return LogLeadParams{
		Email:          strings.ToLower(req.Email),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		City:           req.City,
		State:          req.State,
		Zip:            req.Zip,
		ProductType:    productType,
		ATSScore:       score,
		ConsentScopes:  scopes,
		ConsentVersion: utils.FirstNonEmpty(req.ConsentVersion, DefaultConsentVersion),
		GPC:            bool(req.GPC),
		UTM:            utm,
		Referrer:       req.Referrer,
		IPTrunc:        utils.FirstNonEmpty(req.IPTrunc, clientIP),
		UA:             utils.FirstNonEmpty(req.UA, utils.TruncateRunes(userAgent, MaxUserAgentLength)),
	}
}
