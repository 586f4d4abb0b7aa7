package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const (
	defaultPageLimit  = 10
	defaultEventLimit = 50
)

// decodeJSON rejects unknown fields and trailing data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

func pageParams(r *http.Request, defaultLimit int) entity.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return entity.NewPage(page, limit, defaultLimit)
}

// items keeps empty lists encoded as [] rather than null.
func items[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
