package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// safaricomPattern matches Safaricom subscriber numbers after the country
// code or leading zero has been stripped: 7xx and 1xx ranges
var safaricomPattern = regexp.MustCompile(`^(7\d{8}|1\d{8})$`)

// ValidateMSISDN validates a phone number and normalizes it to the
// 2547XXXXXXXX form the payment provider expects
func ValidateMSISDN(msisdn string) (bool, string, error) {
	// Clean the input by removing any non-digit separators
	stripped := strings.ReplaceAll(msisdn, "-", "")
	stripped = strings.ReplaceAll(stripped, " ", "")
	stripped = strings.ReplaceAll(stripped, "+", "")

	// Remove country code or leading zero if present
	if strings.HasPrefix(stripped, "254") {
		stripped = stripped[3:]
	} else if strings.HasPrefix(stripped, "0") {
		stripped = stripped[1:]
	}

	if !safaricomPattern.MatchString(stripped) {
		return false, "", fmt.Errorf("invalid MSISDN format or not a Safaricom number")
	}

	// Format with country code
	formatted := "254" + stripped

	return true, formatted, nil
}
