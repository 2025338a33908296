package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
)

var errEmptyBody = errors.New("request body is empty")

// parseJSON decodes the request body into T. Unknown fields are rejected so
// a misspelled optional field does not silently turn into "absent".
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil || r.Body == http.NoBody {
		return req, errEmptyBody
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// queryList returns every value of a repeatable query parameter. Values may
// also be comma separated: ?asset_id=a,b is the same as ?asset_id=a&asset_id=b.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// queryUUIDs is queryList with UUID validation.
func queryUUIDs(r *http.Request, key string) ([]string, error) {
	ids := queryList(r, key)
	if len(ids) == 0 {
		return nil, nil
	}
	if err := validation.ValidateUUIDs(ids); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return ids, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: expected a boolean, got %q", key, raw)
	}
	return b, nil
}

// holdingsFilterFromQuery reads account_id, asset_id, asset_type and
// volatility. Enum values are upper-cased here and checked by the service.
func holdingsFilterFromQuery(r *http.Request) (model.HoldingsFilter, error) {
	accountIDs, err := queryUUIDs(r, "account_id")
	if err != nil {
		return model.HoldingsFilter{}, err
	}
	assetIDs, err := queryUUIDs(r, "asset_id")
	if err != nil {
		return model.HoldingsFilter{}, err
	}

	q := r.URL.Query()
	return model.HoldingsFilter{
		AccountIDs:       accountIDs,
		AssetIDs:         assetIDs,
		AssetType:        model.AssetType(strings.ToUpper(strings.TrimSpace(q.Get("asset_type")))),
		VolatilityBucket: model.VolatilityBucket(strings.ToUpper(strings.TrimSpace(q.Get("volatility")))),
	}, nil
}
