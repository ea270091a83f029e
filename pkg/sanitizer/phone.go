package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Regions tried in order when a phone number arrives without a country
// prefix. Numbers that already carry a +prefix parse under any region.
var supportedRegions = []string{
	"US",
	"MX",
}

// NormalizePhone converts a phone number to E.164. Unparseable input
// normalizes to empty, which validation then treats as absent.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
