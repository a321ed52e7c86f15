package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers entered without a country prefix
const DefaultRegion = "GB"

var (
	// ErrEmpty is returned for a blank number
	ErrEmpty = errors.New("phone number cannot be empty")
	// ErrInvalid is returned for a number that parses but is not dialable
	ErrInvalid = errors.New("invalid phone number")
)

// Details describes a validated number
type Details struct {
	E164     string `json:"e164"`
	National string `json:"national"`
	Region   string `json:"region"`
	Mobile   bool   `json:"mobile"`
}

// Normalize returns number in E.164 form. Numbers without a country
// prefix are read as DefaultRegion numbers.
func Normalize(number string) (string, error) {
	d, err := Validate(number, DefaultRegion)
	if err != nil {
		return "", err
	}
	return d.E164, nil
}

// Validate parses number with region as the hint and reports its formats
func Validate(number, region string) (*Details, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrEmpty
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(number, region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return nil, ErrInvalid
	}

	numberType := phonenumbers.GetNumberType(parsed)
	return &Details{
		E164:     phonenumbers.Format(parsed, phonenumbers.E164),
		National: phonenumbers.Format(parsed, phonenumbers.NATIONAL),
		Region:   phonenumbers.GetRegionCodeForNumber(parsed),
		Mobile:   numberType == phonenumbers.MOBILE || numberType == phonenumbers.FIXED_LINE_OR_MOBILE,
	}, nil
}
