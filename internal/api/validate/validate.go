package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// IntInRange parses an optional query value. Empty returns def.
func IntInRange(field, raw string, lo, hi, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", field, lo, hi)
	}
	return n, nil
}

// Bool parses an optional boolean query value. Empty returns def.
func Bool(field, raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", field)
	}
	return b, nil
}

// DecodeJSON reads a size-limited JSON body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %v", err)
	}
	return nil
}
