package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainChartSpec = "chartpick/chart/v1"
	DomainValue     = "chartpick/value/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes a content-addressed hash of a chart spec.
// Element refs are not part of the hash; labels, values, bin widths, the
// field type name and the default source are.
func SpecHash(spec ChartSpec) (string, error) {
	elems := make([]any, len(spec.Elements))
	for i, e := range spec.Elements {
		if e.Value == nil {
			return "", fmt.Errorf("SpecHash: element %q has no value", e.Label)
		}
		elems[i] = map[string]any{
			"label":     e.Label,
			"kind":      e.Value.Kind().String(),
			"value":     e.Value,
			"bin_width": e.BinWidth,
		}
	}
	obj := map[string]any{
		"name":     spec.Name,
		"type":     spec.TypeName,
		"source":   string(spec.Source),
		"elements": elems,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainChartSpec, canonical), nil
}

// ValueKey returns a stable identity for a value, distinguishing kinds:
// Number(1) and String("1") have different keys. Used to collapse duplicate
// members of a value set. Non-finite numbers have no JSON form and are keyed
// by name, so every NaN shares one key.
func ValueKey(v Value) (string, error) {
	if v == nil {
		return "", fmt.Errorf("ValueKey: nil value")
	}
	var keyed any = v
	if n, ok := v.(Number); ok && (math.IsNaN(float64(n)) || math.IsInf(float64(n), 0)) {
		keyed = nonFiniteName(float64(n))
	}
	canonical, err := MarshalCanonical(map[string]any{
		"kind":  v.Kind().String(),
		"value": keyed,
	})
	if err != nil {
		return "", fmt.Errorf("ValueKey: %w", err)
	}
	return hashWithDomain(DomainValue, canonical), nil
}

func nonFiniteName(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f > 0:
		return "+Inf"
	default:
		return "-Inf"
	}
}
