// Package engine runs Starlark tour scripts stored on map cards.
//
// A tour script defines a global named stops: a list of dicts with any of
// the camera fields longitude, latitude, zoom, pitch and bearing. The
// current view is available to the script as start.
//
//	stops = [
//	    {"zoom": 17},
//	    {"bearing": 90, "pitch": 60},
//	    {"longitude": start["longitude"] + 0.01},
//	]
package engine

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"filmscout/mapview"
)

// MaxSteps bounds the work a single script may do.
const MaxSteps = 1_000_000

// MaxStops bounds the length of a tour.
const MaxStops = 64

var (
	// ErrNoStops is returned when a script does not define stops.
	ErrNoStops = errors.New("tour script does not define stops")
	// ErrBadStop is returned when a stop is not a dict of numbers.
	ErrBadStop = errors.New("invalid tour stop")
)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// ScriptHash creates a cache key for a tour run.
func ScriptHash(cardID, script string, start mapview.CameraState) string {
	data := map[string]interface{}{
		"cardID": cardID,
		"script": script,
		"start":  start,
	}
	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

// ExecuteStarlark executes a script with provided inputs and returns a map of
// global names to native Go values. print() output goes to the default logger.
func ExecuteStarlark(threadName string, script string, inputs map[string]interface{}) (map[string]interface{}, error) {
	thread := &starlark.Thread{
		Name: threadName,
		Print: func(_ *starlark.Thread, msg string) {
			slog.Info("tour script output", slog.String("script", threadName), slog.String("message", msg))
		},
	}
	thread.SetMaxExecutionSteps(MaxSteps)

	globals := starlark.StringDict{}
	for k, v := range inputs {
		val, err := toStarlarkValue(v)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", k, err)
		}
		globals[k] = val
	}

	resultGlobals, err := starlark.ExecFileOptions(fileOptions, thread, threadName, script, globals)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(resultGlobals))
	for k, v := range resultGlobals {
		out[k] = FromStarlarkValue(v)
	}
	return out, nil
}

// RunTour executes script and returns its stops as camera states. Fields a
// stop leaves out are carried over from the previous stop, and the first
// stop inherits from start. Every stop is clamped to the camera limits.
func RunTour(name, script string, start mapview.CameraState) ([]mapview.CameraState, error) {
	globals, err := ExecuteStarlark(name, script, map[string]interface{}{
		"start": stateToMap(start),
	})
	if err != nil {
		return nil, fmt.Errorf("run tour %s: %w", name, err)
	}

	raw, ok := globals["stops"]
	if !ok {
		return nil, ErrNoStops
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: stops must be a list, got %T", ErrBadStop, raw)
	}
	if len(list) > MaxStops {
		return nil, fmt.Errorf("%w: %d stops exceeds the limit of %d", ErrBadStop, len(list), MaxStops)
	}

	stops := make([]mapview.CameraState, 0, len(list))
	prev := start
	for i, item := range list {
		fields, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: stop %d is %T, want dict", ErrBadStop, i, item)
		}
		next, err := applyStop(prev, fields)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		stops = append(stops, next)
		prev = next
	}
	return stops, nil
}

func applyStop(prev mapview.CameraState, fields map[string]interface{}) (mapview.CameraState, error) {
	next := prev
	targets := map[string]*float64{
		"longitude": &next.Longitude,
		"latitude":  &next.Latitude,
		"zoom":      &next.Zoom,
		"pitch":     &next.Pitch,
		"bearing":   &next.Bearing,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dst, ok := targets[k]
		if !ok {
			return prev, fmt.Errorf("%w: unknown field %q", ErrBadStop, k)
		}
		v, ok := toFloat(fields[k])
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return prev, fmt.Errorf("%w: field %q is not a number", ErrBadStop, k)
		}
		*dst = v
	}
	return next.Clamp(), nil
}

func stateToMap(s mapview.CameraState) map[string]interface{} {
	return map[string]interface{}{
		"longitude": s.Longitude,
		"latitude":  s.Latitude,
		"zoom":      s.Zoom,
		"pitch":     s.Pitch,
		"bearing":   s.Bearing,
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Helpers for type conversion
func toStarlarkValue(v interface{}) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}
	switch val := v.(type) {
	case string:
		return starlark.String(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case float64:
		return starlark.Float(val), nil
	case bool:
		return starlark.Bool(val), nil
	case []interface{}:
		elems := make([]starlark.Value, 0, len(val))
		for _, e := range val {
			sv, err := toStarlarkValue(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, sv)
		}
		return starlark.NewList(elems), nil
	case map[string]interface{}:
		d := starlark.NewDict(len(val))
		for k, e := range val {
			sv, err := toStarlarkValue(e)
			if err != nil {
				return nil, err
			}
			if err := d.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
	return starlark.None, fmt.Errorf("unsupported type: %T", v)
}

// FromStarlarkValue converts a Starlark value to a Go value. Dict keys that
// are not strings are dropped; unsupported values become nil.
func FromStarlarkValue(v starlark.Value) interface{} {
	switch val := v.(type) {
	case starlark.String:
		return string(val)
	case starlark.Int:
		i, _ := val.Int64()
		return int(i)
	case starlark.Float:
		return float64(val)
	case starlark.Bool:
		return bool(val)
	case *starlark.List:
		out := make([]interface{}, 0, val.Len())
		for i := 0; i < val.Len(); i++ {
			out = append(out, FromStarlarkValue(val.Index(i)))
		}
		return out
	case starlark.Tuple:
		out := make([]interface{}, 0, len(val))
		for _, e := range val {
			out = append(out, FromStarlarkValue(e))
		}
		return out
	case *starlark.Dict:
		out := make(map[string]interface{}, val.Len())
		for _, item := range val.Items() {
			k, ok := item[0].(starlark.String)
			if !ok {
				continue
			}
			out[string(k)] = FromStarlarkValue(item[1])
		}
		return out
	}
	return nil
}
