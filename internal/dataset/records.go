package dataset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/mitchellh/mapstructure"

	"github.com/spigell/skillmatch/internal/matching"
)

// Pointer fields tell "absent" apart from a zero value, so an explicit
// exp_years: 0 or skills: [] is accepted while a missing key is not.
type candidateRecord struct {
	ID         string    `mapstructure:"id" yaml:"id" validate:"required"`
	Name       string    `mapstructure:"name" yaml:"name" validate:"required"`
	Skills     *[]string `mapstructure:"skills" yaml:"skills" validate:"required"`
	Experience *int      `mapstructure:"exp_years" yaml:"exp_years" validate:"required"`
	Location   *string   `mapstructure:"location" yaml:"location" validate:"required"`
}

type requesterRecord struct {
	ID             string    `mapstructure:"id" yaml:"id" validate:"required"`
	Title          string    `mapstructure:"title" yaml:"title" validate:"required"`
	RequiredSkills *[]string `mapstructure:"req_skills" yaml:"req_skills" validate:"required"`
	MinExperience  *int      `mapstructure:"min_exp" yaml:"min_exp" validate:"required"`
	Location       *string   `mapstructure:"location" yaml:"location" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// DecodeCandidate builds a typed candidate from a loosely typed record.
func DecodeCandidate(raw map[string]any) (matching.Candidate, error) {
	var rec candidateRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return matching.Candidate{}, err
	}

	return matching.Candidate{
		ID:         strings.TrimSpace(rec.ID),
		Name:       rec.Name,
		Skills:     *rec.Skills,
		Experience: *rec.Experience,
		Location:   *rec.Location,
	}, nil
}

// DecodeRequester builds a typed requester from a loosely typed record.
func DecodeRequester(raw map[string]any) (matching.Requester, error) {
	var rec requesterRecord
	if err := decodeRecord(raw, &rec); err != nil {
		return matching.Requester{}, err
	}

	return matching.Requester{
		ID:             strings.TrimSpace(rec.ID),
		Title:          rec.Title,
		RequiredSkills: *rec.RequiredSkills,
		MinExperience:  *rec.MinExperience,
		Location:       *rec.Location,
	}, nil
}

func decodeRecord(raw map[string]any, result any) error {
	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	if err := validate.Struct(result); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
		}
		return fmt.Errorf("validating record: %w", err)
	}

	return nil
}

func candidateToRecord(c matching.Candidate) candidateRecord {
	skills := append([]string{}, c.Skills...)
	exp := c.Experience
	loc := c.Location
	return candidateRecord{ID: c.ID, Name: c.Name, Skills: &skills, Experience: &exp, Location: &loc}
}

func requesterToRecord(r matching.Requester) requesterRecord {
	skills := append([]string{}, r.RequiredSkills...)
	exp := r.MinExperience
	loc := r.Location
	return requesterRecord{ID: r.ID, Title: r.Title, RequiredSkills: &skills, MinExperience: &exp, Location: &loc}
}
