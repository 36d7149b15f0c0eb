package forms

import (
	"net/url"
	"time"

	"github.com/go-playground/form"
)

var decoder *form.Decoder

func init() {
	decoder = form.NewDecoder()
	decoder.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		if len(vals) == 0 {
			return time.Time{}, nil
		}
		return ParseDate(vals[0]), nil
	}, time.Time{})
}

// Decode copies submitted inputs into dst. Inputs missing from values keep
// whatever dst held, so callers clear dst first when a full replace is meant.
func Decode(dst any, values url.Values) error {
	return decoder.Decode(dst, values)
}
