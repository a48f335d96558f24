package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"rentabilidad/internal/core"
)

const maxBodyBytes = 1 << 20

var errMalformedRequest = errors.New("malformed request")

// decodeJSON reads one JSON object from the body into dst. Domain errors
// raised by custom unmarshalers keep their identity.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		for _, domain := range []error{core.ErrInvalidAmount, core.ErrInvalidDate} {
			if errors.Is(err, domain) {
				return err
			}
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errMalformedRequest)
		}
		return fmt.Errorf("%w: %v", errMalformedRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", errMalformedRequest)
	}
	return nil
}

// dateParam reads a YYYY-MM-DD query parameter, defaulting to def.
func dateParam(q url.Values, name string, def core.Date) (core.Date, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s %q: %w", name, v, err)
	}
	return d, nil
}

// intParam reads an integer query parameter, defaulting to def.
func intParam(q url.Values, name string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errMalformedRequest, name)
	}
	return n, nil
}

// sanitizeInput trims s and drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
