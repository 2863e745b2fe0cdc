package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/iwvelando/chip-economics/pkg/economics"
)

// parameterIndex maps every lower-cased parameter key to its group key, and
// every lower-cased group key to itself.
var parameterIndex = buildParameterIndex()

func buildParameterIndex() map[string]string {
	index := make(map[string]string)
	groups := reflect.TypeOf(economics.EconomicParameters{})
	for i := 0; i < groups.NumField(); i++ {
		group := groups.Field(i)
		groupKey := group.Tag.Get("mapstructure")
		index[strings.ToLower(groupKey)] = groupKey

		for j := 0; j < group.Type.NumField(); j++ {
			key := strings.ToLower(group.Type.Field(j).Tag.Get("mapstructure"))
			index[key] = groupKey
		}
	}
	return index
}

// ApplyOverrides returns a copy of base with the overrides decoded onto it.
// Keys may be grouped as in the common parameters (market: {biocharPrice: 600})
// or flat (biocharPrice: 600). Keys are matched case-insensitively; unknown
// keys are an error.
func ApplyOverrides(base economics.EconomicParameters, overrides map[string]interface{}) (economics.EconomicParameters, error) {
	if len(overrides) == 0 {
		return base, nil
	}

	nested := make(map[string]interface{})
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := overrides[key]
		group, ok := parameterIndex[strings.ToLower(key)]
		if !ok {
			return base, fmt.Errorf("%w: unknown parameter override %q", economics.ErrInvalidParameter, key)
		}

		if strings.EqualFold(group, key) {
			fields, ok := toStringMap(value)
			if !ok {
				return base, fmt.Errorf("%w: override group %q must be a mapping", economics.ErrInvalidParameter, key)
			}
			target := groupMap(nested, group)
			for fk, fv := range fields {
				if g := parameterIndex[strings.ToLower(fk)]; g != group {
					return base, fmt.Errorf("%w: unknown parameter override %s.%s", economics.ErrInvalidParameter, key, fk)
				}
				target[fk] = fv
			}
			continue
		}
		groupMap(nested, group)[key] = value
	}

	result := base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return base, err
	}
	if err := decoder.Decode(nested); err != nil {
		return base, fmt.Errorf("%w: %s", economics.ErrInvalidParameter, err)
	}
	return result, nil
}

func groupMap(nested map[string]interface{}, group string) map[string]interface{} {
	if m, ok := nested[group].(map[string]interface{}); ok {
		return m
	}
	m := make(map[string]interface{})
	nested[group] = m
	return m
}

func toStringMap(value interface{}) (map[string]interface{}, bool) {
	switch m := value.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}
