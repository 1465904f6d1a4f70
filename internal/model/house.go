package model

import "fmt"

// Binary is a closed yes/no attribute value
type Binary string

const (
	Yes Binary = "yes"
	No  Binary = "no"
)

// Furnishing is the furnishing status of a house
type Furnishing string

const (
	Furnished     Furnishing = "furnished"
	SemiFurnished Furnishing = "semi-furnished"
	Unfurnished   Furnishing = "unfurnished"
)

// Input domain bounds
const (
	AreaMin      = 100 // exclusive
	AreaMax      = 50000
	BedroomsMin  = 1
	BedroomsMax  = 10
	BathroomsMin = 1
	BathroomsMax = 5
	StoriesMin   = 1
	StoriesMax   = 4
)

// HouseInput represents the structured attributes of a house to be priced
type HouseInput struct {
	Area             int        `json:"area"`
	Bedrooms         int        `json:"bedrooms"`
	Bathrooms        int        `json:"bathrooms"`
	Stories          int        `json:"stories"`
	MainRoad         Binary     `json:"mainroad"`
	GuestRoom        Binary     `json:"guestroom"`
	Basement         Binary     `json:"basement"`
	HotWaterHeating  Binary     `json:"hotwaterheating"`
	AirConditioning  Binary     `json:"airconditioning"`
	Parking          int        `json:"parking"`
	PrefArea         Binary     `json:"prefarea"`
	FurnishingStatus Furnishing `json:"furnishingstatus"`
}

// HouseRequest is the JSON body of a prediction request. Every field is a
// pointer so an omitted key can be told apart from a zero value.
type HouseRequest struct {
	Area             *int        `json:"area" binding:"required"`
	Bedrooms         *int        `json:"bedrooms" binding:"required"`
	Bathrooms        *int        `json:"bathrooms" binding:"required"`
	Stories          *int        `json:"stories" binding:"required"`
	MainRoad         *Binary     `json:"mainroad" binding:"required"`
	GuestRoom        *Binary     `json:"guestroom" binding:"required"`
	Basement         *Binary     `json:"basement" binding:"required"`
	HotWaterHeating  *Binary     `json:"hotwaterheating" binding:"required"`
	AirConditioning  *Binary     `json:"airconditioning" binding:"required"`
	Parking          *int        `json:"parking" binding:"required"`
	PrefArea         *Binary     `json:"prefarea" binding:"required"`
	FurnishingStatus *Furnishing `json:"furnishingstatus" binding:"required"`
}

// MissingFieldMessage is the violation message for an omitted field
const MissingFieldMessage = "field required"

// Input converts the request to a HouseInput. Omitted fields are reported
// as violations; the values themselves are checked by Validate.
func (r HouseRequest) Input() (HouseInput, ValidationResult) {
	var res ValidationResult
	in := HouseInput{
		Area:             required(r.Area, "area", &res),
		Bedrooms:         required(r.Bedrooms, "bedrooms", &res),
		Bathrooms:        required(r.Bathrooms, "bathrooms", &res),
		Stories:          required(r.Stories, "stories", &res),
		MainRoad:         required(r.MainRoad, "mainroad", &res),
		GuestRoom:        required(r.GuestRoom, "guestroom", &res),
		Basement:         required(r.Basement, "basement", &res),
		HotWaterHeating:  required(r.HotWaterHeating, "hotwaterheating", &res),
		AirConditioning:  required(r.AirConditioning, "airconditioning", &res),
		Parking:          required(r.Parking, "parking", &res),
		PrefArea:         required(r.PrefArea, "prefarea", &res),
		FurnishingStatus: required(r.FurnishingStatus, "furnishingstatus", &res),
	}
	return in, res
}

func required[T any](p *T, field string, res *ValidationResult) T {
	var zero T
	if p == nil {
		res.Violations = append(res.Violations, FieldViolation{Field: field, Message: MissingFieldMessage})
		return zero
	}
	return *p
}

// BinaryField pairs a feature name with its yes/no value
type BinaryField struct {
	Name  string
	Value Binary
}

// BinaryFields returns the binary attributes in training column order
func (h HouseInput) BinaryFields() []BinaryField {
	return []BinaryField{
		{"mainroad", h.MainRoad},
		{"guestroom", h.GuestRoom},
		{"basement", h.Basement},
		{"hotwaterheating", h.HotWaterHeating},
		{"airconditioning", h.AirConditioning},
		{"prefarea", h.PrefArea},
	}
}

// NumericFields returns the direct numeric attributes keyed by feature name
func (h HouseInput) NumericFields() map[string]float64 {
	return map[string]float64{
		"area":      float64(h.Area),
		"bedrooms":  float64(h.Bedrooms),
		"bathrooms": float64(h.Bathrooms),
		"stories":   float64(h.Stories),
		"parking":   float64(h.Parking),
	}
}

// ValidationResult is the outcome of validating a HouseInput
type ValidationResult struct {
	Violations []FieldViolation
}

// Valid reports whether no constraint was violated
func (r ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns a *ValidationError, or nil if the result is valid
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

// Validate checks ranges, enums and the bathrooms/bedrooms rule
func (h HouseInput) Validate() ValidationResult {
	var res ValidationResult
	add := func(field, format string, args ...any) {
		res.Violations = append(res.Violations, FieldViolation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if h.Area <= AreaMin || h.Area >= AreaMax {
		add("area", "must be greater than %d and less than %d", AreaMin, AreaMax)
	}
	if h.Bedrooms < BedroomsMin || h.Bedrooms > BedroomsMax {
		add("bedrooms", "must be between %d and %d", BedroomsMin, BedroomsMax)
	}
	if h.Bathrooms < BathroomsMin || h.Bathrooms > BathroomsMax {
		add("bathrooms", "must be between %d and %d", BathroomsMin, BathroomsMax)
	}
	if h.Stories < StoriesMin || h.Stories > StoriesMax {
		add("stories", "must be between %d and %d", StoriesMin, StoriesMax)
	}
	if h.Parking < 0 {
		add("parking", "must not be negative")
	}
	for _, f := range h.BinaryFields() {
		if f.Value != Yes && f.Value != No {
			add(f.Name, "must be one of: yes, no")
		}
	}
	switch h.FurnishingStatus {
	case Furnished, SemiFurnished, Unfurnished:
	default:
		add("furnishingstatus", "must be one of: furnished, semi-furnished, unfurnished")
	}

	// Only meaningful once bedrooms itself is in range
	if h.Bedrooms >= BedroomsMin && h.Bathrooms > h.Bedrooms+1 {
		add("bathrooms", "too many bathrooms for the number of bedrooms")
	}

	return res
}
