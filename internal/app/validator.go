package app

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"hotel_indexes/internal/domain"
)

// hotelSchema is the structural contract for a create payload. Emptiness
// after trimming and numeric coercion are checked afterwards in Go.
const hotelSchema = `{
  "type": "object",
  "required": ["name", "location", "price", "rooms"],
  "properties": {
    "name":        {"type": "string"},
    "location":    {"type": "string"},
    "price":       {"type": ["number", "string"]},
    "rooms":       {"type": ["integer", "string"]},
    "description": {"type": ["string", "null"]}
  }
}`

type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(hotelSchema))
	if err != nil {
		return nil, fmt.Errorf("compile hotel schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// MustValidator panics if the embedded schema does not compile.
func MustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns a normalized hotel (trimmed strings, coerced numbers)
// or a *domain.ValidationError. The returned hotel has no ID.
func (v *Validator) Validate(payload map[string]any) (domain.Hotel, error) {
	ve := domain.NewValidationError()

	res, err := v.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		ve.Add("(root)", "payload is not a JSON object")
		return domain.Hotel{}, ve
	}
	for _, re := range res.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if p, ok := re.Details()["property"].(string); ok {
				field = p
			}
		}
		ve.Add(field, re.Description())
	}
	if payload == nil {
		return domain.Hotel{}, ve.Err()
	}

	var h domain.Hotel

	for _, key := range []string{"name", "location"} {
		s, ok := lookupStr(payload, key)
		if ok && s == "" {
			ve.Add(key, "must not be empty")
		}
		if key == "name" {
			h.Name = s
		} else {
			h.Location = s
		}
	}

	if raw, ok := payload["price"]; ok && raw != nil {
		switch p, ok := floatFlexible(raw); {
		case !ok:
			ve.Add("price", "must be a number")
		case p < 0:
			ve.Add("price", "must be non-negative")
		default:
			h.Price = p
		}
	}

	if raw, ok := payload["rooms"]; ok && raw != nil {
		switch n, ok := intFlexible(raw); {
		case !ok:
			ve.Add("rooms", "must be a whole number")
		case n < 0:
			ve.Add("rooms", "must be non-negative")
		default:
			h.Rooms = n
		}
	}

	h.Description, _ = lookupStr(payload, "description")

	if err := ve.Err(); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}
