package form

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"liftdesk/internal/domain"
)

// MaxTechnicians is the backend's per-job assignment limit
const MaxTechnicians = 3

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CallbackForm is the editable part of a callback
type CallbackForm struct {
	CustomerID    string   `json:"customer_id" validate:"required"`
	ScheduledDate string   `json:"scheduled_date" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Notes         string   `json:"notes"`
	Technicians   []string `json:"technicians" validate:"max=3"`
}

// RepairForm covers repairs for existing and walk-in customers
type RepairForm struct {
	IsExistingCustomer string   `json:"is_existing_customer" validate:"omitempty,oneof=true false"`
	CustomerID         string   `json:"customer_id" validate:"required_if=IsExistingCustomer true"`
	CustomerName       string   `json:"customer_name" validate:"required_unless=IsExistingCustomer true"`
	ContactNumber      string   `json:"contact_number" validate:"required_unless=IsExistingCustomer true"`
	ScheduledDate      string   `json:"scheduled_date" validate:"required"`
	Description        string   `json:"description" validate:"required"`
	Notes              string   `json:"notes"`
	Technicians        []string `json:"technicians"`
}

// CustomerForm is an AMC customer record
type CustomerForm struct {
	Name          string `json:"name" validate:"required"`
	SiteName      string `json:"site_name" validate:"required"`
	JobNumber     string `json:"job_number" validate:"required"`
	ContactPerson string `json:"contact_person" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Area          string `json:"area" validate:"required"`
	Address       string `json:"address"`
	Route         string `json:"route" validate:"omitempty,numeric"`
	AMCValidFrom  string `json:"amc_valid_from" validate:"required"`
	AMCValidTo    string `json:"amc_valid_to" validate:"required"`
	AMCAmount     string `json:"amc_amount" validate:"required,numeric"`
}

var registry = map[string]Validator{
	"callback": StructValidator[CallbackForm](),
	"repair":   StructValidator[RepairForm](),
	"customer": StructValidator[CustomerForm](),
}

// ValidatorFor returns the named validator, or nil when none is registered
func ValidatorFor(name string) Validator {
	return registry[name]
}

// StructValidator validates form values against T's struct tags. Messages
// are keyed by JSON field name.
func StructValidator[T any]() Validator {
	return func(values map[string]any) map[string]string {
		var dst T
		if err := decodeValues(values, &dst); err != nil {
			return map[string]string{"_": err.Error()}
		}

		errs := validate.Struct(&dst)
		if errs == nil {
			return nil
		}
		verrs, ok := errs.(validator.ValidationErrors)
		if !ok {
			return map[string]string{"_": errs.Error()}
		}

		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = message(fe)
		}
		return out
	}
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return label + " is required"
	case "numeric":
		return label + " must be a number"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("At most %s can be selected", fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// Label turns a field key such as "amc_valid_to" into "Amc valid to"
func Label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeValues maps loosely typed form values onto a form struct. Scalars
// become strings so "3" and 3 validate alike.
func decodeValues(values map[string]any, dst any) error {
	norm := make(map[string]any, len(values))
	for k, v := range values {
		switch val := v.(type) {
		case []string:
			norm[k] = val
		case []any:
			list := make([]string, 0, len(val))
			for _, e := range val {
				list = append(list, domain.Stringify(e))
			}
			norm[k] = list
		default:
			norm[k] = domain.Stringify(val)
		}
	}
	data, err := json.Marshal(norm)
	if err != nil {
		return fmt.Errorf("encode form values: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode form values: %w", err)
	}
	return nil
}

// Values converts raw text inputs into a request body. Blank inputs are
// dropped and "true"/"false" become booleans.
func Values(raw map[string]string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		v = strings.TrimSpace(v)
		switch v {
		case "":
			continue
		case "true":
			out[k] = true
		case "false":
			out[k] = false
		default:
			out[k] = v
		}
	}
	return out
}
