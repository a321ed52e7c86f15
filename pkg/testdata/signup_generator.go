package testdata

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jordanlanch/careconnect/pkg/models"
)

// Services offered on the marketplace
var Services = []string{
	"Home Care", "Live-in Care", "Dementia Care", "Companionship",
	"Respite Care", "Nursing Care", "Overnight Care", "Palliative Care",
}

// Urgencies are the timeline choices of the wizard
var Urgencies = []string{"immediately", "within_a_week", "within_a_month", "flexible"}

// Budgets are the budget brackets of the wizard
var Budgets = []string{"under_500", "500_1000", "1000_2500", "over_2500"}

// UKMobiles are valid UK mobile numbers as users type them
var UKMobiles = []string{"07400 123456", "+44 7911 123456", "07400123456"}

// Buyer is a generated buyer sign-up
type Buyer struct {
	Service  string
	Urgency  string
	Budget   string
	Notes    string
	Email    string
	Password string
	Location string
	Phone    string
}

// NewBuyer generates a buyer with every required field set
func NewBuyer() Buyer {
	first := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			return unicode.ToLower(r)
		}
		return -1
	}, gofakeit.FirstName())
	return Buyer{
		Service:  gofakeit.RandomString(Services),
		Urgency:  gofakeit.RandomString(Urgencies),
		Budget:   gofakeit.RandomString(Budgets),
		Notes:    gofakeit.Sentence(8),
		Email:    fmt.Sprintf("%s.buyer%d@example.com", first, gofakeit.Number(1000, 9999)),
		Password: gofakeit.Password(true, true, true, false, false, 12),
		Location: gofakeit.City(),
		Phone:    gofakeit.RandomString(UKMobiles),
	}
}

// Intent returns a patch with the intent steps filled in
func (b Buyer) Intent() models.WizardPatch {
	return models.WizardPatch{
		Service: &b.Service,
		Urgency: &b.Urgency,
		Budget:  &b.Budget,
		Notes:   &b.Notes,
	}
}

// Credentials returns a patch with the credentials step filled in
func (b Buyer) Credentials() models.WizardPatch {
	return models.WizardPatch{
		Email:           &b.Email,
		Password:        &b.Password,
		ConfirmPassword: &b.Password,
		Phone:           &b.Phone,
		Location:        &b.Location,
	}
}
