package timeinfo

import "errors"

// ErrMalformedPayload is returned when the service response is not a JSON
// object carrying non-empty string fields timezone, utc_offset, time and date.
var ErrMalformedPayload = errors.New("malformed payload")

// ErrMalformedTimezone is returned when the timezone field is not of the form
// "Region/City".
var ErrMalformedTimezone = errors.New("malformed timezone")
