package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/model"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// FieldValidator checks single values against a field type and its options.
// It is safe for concurrent use.
type FieldValidator struct {
	regexes *common.RegexCache
}

// NewFieldValidator returns a validator with an empty pattern cache.
func NewFieldValidator() *FieldValidator {
	return &FieldValidator{regexes: &common.RegexCache{}}
}

// Validate reports whether value satisfies fieldType under options. A nil
// value is always valid; required checks happen at the record level.
func (f *FieldValidator) Validate(value any, fieldType model.FieldType, options map[string]any) (err error) {
	if value == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validation error: %v", r)
		}
	}()

	switch fieldType {
	case model.FieldString:
		return f.validateString(value, options)
	case model.FieldNumber, model.FieldDecimal:
		return validateNumber(value, options)
	case model.FieldInteger:
		return validateInteger(value, options)
	case model.FieldDate:
		return validateDate(value, options)
	case model.FieldBoolean:
		return validateBoolean(value)
	case model.FieldEmail:
		return validateEmail(value)
	case model.FieldCPF:
		s, ok := value.(string)
		if !ok {
			return errors.New("CPF must be a string")
		}
		return CheckCPF(s)
	case model.FieldCNPJ:
		s, ok := value.(string)
		if !ok {
			return errors.New("CNPJ must be a string")
		}
		return CheckCNPJ(s)
	case model.FieldEnum:
		return validateEnum(value, options)
	default:
		return fmt.Errorf("unknown field type: %s", fieldType)
	}
}

func (f *FieldValidator) validateString(value any, options map[string]any) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("value must be a string")
	}
	length := float64(utf8.RuneCountInString(s))

	minLen, hasMin, err := numberOption(options, "min_length")
	if err != nil {
		return err
	}
	if hasMin && length < minLen {
		return fmt.Errorf("string too short (minimum: %s)", formatBound(minLen))
	}

	maxLen, hasMax, err := numberOption(options, "max_length")
	if err != nil {
		return err
	}
	if hasMax && length > maxLen {
		return fmt.Errorf("string too long (maximum: %s)", formatBound(maxLen))
	}

	pattern, hasPattern, err := stringOption(options, "pattern")
	if err != nil {
		return err
	}
	if hasPattern {
		matched, err := f.regexes.FullMatch(pattern, s)
		if err != nil {
			return fmt.Errorf("invalid pattern option: %w", err)
		}
		if !matched {
			return errors.New("string does not match the expected pattern")
		}
	}
	return nil
}

func validateNumber(value any, options map[string]any) error {
	var n float64
	switch v := value.(type) {
	case bool:
		return errors.New("value must be a number")
	case string:
		text := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return errors.New("cannot convert to number")
		}
		n = parsed
	default:
		f, ok := toFloat(v)
		if !ok {
			return errors.New("value must be a number")
		}
		n = f
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return errors.New("value must be a finite number")
	}
	return checkRange(n, options, "number")
}

func validateInteger(value any, options map[string]any) error {
	var n float64
	switch v := value.(type) {
	case bool:
		return errors.New("value must be an integer")
	case string:
		parsed, ok := parseWhole(v)
		if !ok {
			return errors.New("cannot convert to integer")
		}
		n = parsed
	case json.Number:
		parsed, ok := wholeNumber(v)
		if !ok {
			return errors.New("cannot convert to integer")
		}
		n = parsed
	default:
		parsed, ok := wholeNumber(v)
		if !ok {
			return errors.New("value must be an integer")
		}
		n = parsed
	}
	return checkRange(n, options, "integer")
}

func checkRange(n float64, options map[string]any, kind string) error {
	minVal, hasMin, err := numberOption(options, "min")
	if err != nil {
		return err
	}
	if hasMin && n < minVal {
		return fmt.Errorf("%s too small (minimum: %s)", kind, formatBound(minVal))
	}

	maxVal, hasMax, err := numberOption(options, "max")
	if err != nil {
		return err
	}
	if hasMax && n > maxVal {
		return fmt.Errorf("%s too large (maximum: %s)", kind, formatBound(maxVal))
	}
	return nil
}

func validateDate(value any, options map[string]any) error {
	var date time.Time
	switch v := value.(type) {
	case time.Time:
		date = v
	case string:
		format, _, err := stringOption(options, "format")
		if err != nil {
			return err
		}
		parsed, err := parseDate(strings.TrimSpace(v), format)
		switch {
		case errors.Is(err, errUnrecognizedDate):
			return err
		case err != nil:
			return errors.New("invalid date")
		}
		date = parsed
	default:
		return errors.New("value must be a date")
	}

	day := truncateDay(date)

	if minDate, ok, err := dateOption(options, "min_date"); err != nil {
		return err
	} else if ok && day.Before(minDate) {
		return fmt.Errorf("date before the minimum allowed (%s)", minDate.Format(ISODate))
	}

	if maxDate, ok, err := dateOption(options, "max_date"); err != nil {
		return err
	} else if ok && day.After(maxDate) {
		return fmt.Errorf("date after the maximum allowed (%s)", maxDate.Format(ISODate))
	}
	return nil
}

func dateOption(options map[string]any, key string) (time.Time, bool, error) {
	raw, present := options[key]
	if !present || raw == nil {
		return time.Time{}, false, nil
	}

	switch v := raw.(type) {
	case time.Time:
		return truncateDay(v), true, nil
	case string:
		t, err := time.Parse(ISODate, v)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid %s option: %q", key, v)
		}
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid %s option: %v", key, raw)
}

// truncateDay drops the time of day so bounds compare calendar dates.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateBoolean(value any) error {
	switch v := value.(type) {
	case bool:
		return nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "sim", "1", "verdadeiro",
			"false", "no", "não", "0", "falso":
			return nil
		}
		return errors.New("cannot convert to boolean")
	}
	return errors.New("value must be a boolean")
}

func validateEmail(value any) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("email must be a string")
	}
	if !emailPattern.MatchString(s) {
		return errors.New("invalid email")
	}
	return nil
}

func validateEnum(value any, options map[string]any) error {
	values, ok := listOption(options, "values")
	if !ok || len(values) == 0 {
		return errors.New("enum values not defined")
	}
	for _, allowed := range values {
		if sameValue(value, allowed) {
			return nil
		}
	}
	return fmt.Errorf("value must be one of: %s", joinValues(values))
}
