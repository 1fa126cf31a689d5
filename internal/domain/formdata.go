package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormData is the structured business input a poster is generated from.
type FormData struct {
	Category          Category            `json:"category" validate:"required,oneof=restaurant retail service fashion beauty"`
	Fields            map[FieldKey]string `json:"fields"`
	CampaignType      CampaignType        `json:"campaign_type" validate:"omitempty,oneof=standard ramadan new_year"`
	OutputFormat      OutputFormat        `json:"output_format" validate:"omitempty,oneof=square_post portrait_post story landscape_banner print_flyer"`
	CTA               string              `json:"cta" validate:"required"`
	Badge             string              `json:"badge,omitempty" validate:"omitempty,oneof=new bestseller limited sale"`
	PosterLanguage    string              `json:"poster_language,omitempty" validate:"omitempty,oneof=en ar he"`
	BrandKit          []string            `json:"brand_kit,omitempty" validate:"max=6,dive,hexcolor"`
	ProductImage      string              `json:"product_image,omitempty" validate:"omitempty,datauri"`
	LogoImage         string              `json:"logo_image,omitempty" validate:"omitempty,datauri"`
	InspirationImages []string            `json:"inspiration_images,omitempty" validate:"max=3,dive,datauri"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists every problem found in a FormData record.
type ValidationError struct {
	Missing  []FieldKey
	Problems []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		keys := make([]string, len(e.Missing))
		for i, k := range e.Missing {
			keys[i] = string(k)
		}
		parts = append(parts, "missing required fields: "+strings.Join(keys, ", "))
	}
	parts = append(parts, e.Problems...)
	return "invalid form data: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Normalize trims field values and applies defaults for optional enums.
func (f *FormData) Normalize() {
	if f == nil {
		return
	}
	f.Category = Category(strings.ToLower(strings.TrimSpace(string(f.Category))))
	if f.CampaignType == "" {
		f.CampaignType = CampaignStandard
	}
	if f.OutputFormat == "" {
		f.OutputFormat = DefaultOutputFormat
	}
	f.CTA = strings.TrimSpace(f.CTA)
	f.Badge = strings.TrimSpace(f.Badge)
	f.PosterLanguage = strings.ToLower(strings.TrimSpace(f.PosterLanguage))
	for k, v := range f.Fields {
		f.Fields[k] = strings.TrimSpace(v)
	}
	for i, c := range f.BrandKit {
		f.BrandKit[i] = strings.TrimSpace(c)
	}
}

// Validate rejects records that are missing a field required by their category
// or that carry values outside the closed option sets.
func (f FormData) Validate() error {
	verr := &ValidationError{}
	if err := validate.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for _, fe := range fieldErrs {
			verr.Problems = append(verr.Problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
	}
	if f.Category.Valid() {
		for _, spec := range categorySchemas[f.Category] {
			if spec.Required && strings.TrimSpace(f.Fields[spec.Key]) == "" {
				verr.Missing = append(verr.Missing, spec.Key)
			}
		}
		var unknown []string
		for key := range f.Fields {
			if _, ok := FieldSpecFor(f.Category, key); !ok {
				unknown = append(unknown, string(key))
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			verr.Problems = append(verr.Problems, fmt.Sprintf("fields not used by %s: %s", f.Category, strings.Join(unknown, ", ")))
		}
		if f.CTA != "" && !containsString(CTAOptions(f.Category), f.CTA) {
			verr.Problems = append(verr.Problems, fmt.Sprintf("cta %q is not offered for %s", f.CTA, f.Category))
		}
	}
	if len(verr.Missing) == 0 && len(verr.Problems) == 0 {
		return nil
	}
	return verr
}

// Clone returns a deep copy so each generation owns its input.
func (f FormData) Clone() FormData {
	out := f
	if f.Fields != nil {
		out.Fields = make(map[FieldKey]string, len(f.Fields))
		for k, v := range f.Fields {
			out.Fields[k] = v
		}
	}
	out.BrandKit = append([]string(nil), f.BrandKit...)
	out.InspirationImages = append([]string(nil), f.InspirationImages...)
	return out
}

// Field returns the trimmed value of a field.
func (f FormData) Field(key FieldKey) string {
	return strings.TrimSpace(f.Fields[key])
}

// FreeTextFields returns the non-empty free-text fields of the record's category.
func (f FormData) FreeTextFields() map[FieldKey]string {
	out := map[FieldKey]string{}
	for _, spec := range categorySchemas[f.Category] {
		if !spec.FreeText {
			continue
		}
		if v := f.Field(spec.Key); v != "" {
			out[spec.Key] = v
		}
	}
	return out
}

// TranslatableFields returns the non-empty fields that translation may rewrite:
// free text plus numeric fields, whose unit words are translated.
func (f FormData) TranslatableFields() map[FieldKey]string {
	out := map[FieldKey]string{}
	for _, spec := range categorySchemas[f.Category] {
		if !spec.FreeText && !spec.Numeric {
			continue
		}
		if v := f.Field(spec.Key); v != "" {
			out[spec.Key] = v
		}
	}
	return out
}

// Images reports whether any image was supplied.
func (f FormData) Images() bool {
	return f.ProductImage != "" || f.LogoImage != "" || len(f.InspirationImages) > 0
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
