package dispatch

import (
	"fmt"
	"math"

	"business-analytics-server/internal/analytics/domain"
	"business-analytics-server/internal/analytics/engine"
)

// Typed parameter extraction. JSON decoding yields float64 for every number,
// so integer parameters accept float64 with an integral value.

func stringParam(params map[string]any, key string, required bool) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("%w: parameter %q is required", domain.ErrValidation, key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter %q must be a string", domain.ErrValidation, key)
	}
	if required && s == "" {
		return "", fmt.Errorf("%w: parameter %q is required", domain.ErrValidation, key)
	}
	return s, nil
}

func intParam(params map[string]any, key string, required bool) (int, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		if required {
			return 0, fmt.Errorf("%w: parameter %q is required", domain.ErrValidation, key)
		}
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: parameter %q must be an integer", domain.ErrValidation, key)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: parameter %q must be an integer", domain.ErrValidation, key)
	}
}

func floatParam(params map[string]any, key string, required bool) (float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		if required {
			return 0, fmt.Errorf("%w: parameter %q is required", domain.ErrValidation, key)
		}
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: parameter %q must be a number", domain.ErrValidation, key)
	}
}

func mapParam(params map[string]any, key string) (map[string]any, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: parameter %q is required", domain.ErrValidation, key)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: parameter %q must be an object", domain.ErrValidation, key)
	}
	return m, nil
}

// inventoryUpdatesParam decodes the update_inventory batch.
func inventoryUpdatesParam(params map[string]any, key string) ([]engine.InventoryUpdate, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: parameter %q is required", domain.ErrValidation, key)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: parameter %q must be a list of objects", domain.ErrValidation, key)
	}
	out := make([]engine.InventoryUpdate, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be an object", domain.ErrValidation, key, i)
		}
		productID, err := stringParam(m, "productId", true)
		if err != nil {
			return nil, err
		}
		warehouse, err := stringParam(m, "warehouse", true)
		if err != nil {
			return nil, err
		}
		quantity, err := intParam(m, "quantity", true)
		if err != nil {
			return nil, err
		}
		out = append(out, engine.InventoryUpdate{
			ProductID: productID,
			Warehouse: warehouse,
			Quantity:  quantity,
		})
	}
	return out, nil
}
