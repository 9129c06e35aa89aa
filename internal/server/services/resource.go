package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// failure passes client-facing errors through and replaces anything else
// with ErrServerFailure after logging it.
func failure(ctx context.Context, logger logging.Logger, op string, err error) error {
	var reason *common.Error
	if errors.As(err, &reason) || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	logger.Error(ctx, op+" failed", "error", err)
	return common.ErrServerFailure
}

// nullKeys is the set of payload keys sent explicitly as JSON null.
type nullKeys map[string]bool

// scanNulls records which top-level keys of a JSON object are null.
func scanNulls(data []byte) (nullKeys, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	keys := nullKeys{}
	for k, v := range raw {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			keys[k] = true
		}
	}
	return keys, nil
}

// pick returns v when the caller supplied it, nil when the key was sent as
// null, otherwise the stored value.
func pick[T any](v, stored *T, cleared bool) *T {
	if v != nil {
		return v
	}
	if cleared {
		return nil
	}
	return stored
}
