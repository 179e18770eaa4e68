// Package marshal maps a parameter bag onto the positional command line of
// each executable kind.
//
// The bag is a map of cty values so that parameters can come straight from
// evaluated configuration expressions or be assembled in Go; the marshaler
// does the type checking for both.
package marshal

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/pipeerr"
	"github.com/zclconf/go-cty/cty"
)

// Bag holds named parameters for one invocation.
type Bag map[string]cty.Value

// Parameter bag keys.
const (
	KeyBoxSize      = "box_size"
	KeyInputFile    = "input_file"
	KeyOutputFile   = "output_file"
	KeyObserverAxis = "observer_axis"
	KeyRedshift     = "redshift"
	KeyOmegaMatter  = "omega_m"
	KeyGridSize     = "grid_size"
	KeyFFTFile      = "fft_file"
	KeyBinCount     = "bin_count"
)

// TransformMode is the fixed leading argument of the transform executable.
const TransformMode = "0"

type argKind int

const (
	argString argKind = iota
	argNumber
	argInteger
)

type slot struct {
	key  string
	kind argKind
}

// layouts is the positional argument order per executable kind. A slot with
// an empty key is a literal.
var layouts = map[executable.Kind][]slot{
	executable.Transform: {
		{key: "", kind: argString},
		{key: KeyBoxSize, kind: argNumber},
		{key: KeyInputFile, kind: argString},
		{key: KeyOutputFile, kind: argString},
		{key: KeyObserverAxis, kind: argInteger},
		{key: KeyRedshift, kind: argNumber},
		{key: KeyOmegaMatter, kind: argNumber},
		{key: KeyGridSize, kind: argInteger},
	},
	executable.Spectrum: {
		{key: KeyFFTFile, kind: argString},
		{key: KeyOutputFile, kind: argString},
		{key: KeyBinCount, kind: argInteger},
		{key: KeyObserverAxis, kind: argInteger},
	},
}

// RequiredKeys lists the bag keys kind needs, in argument order.
func RequiredKeys(kind executable.Kind) []string {
	var keys []string
	for _, s := range layouts[kind] {
		if s.key != "" {
			keys = append(keys, s.key)
		}
	}
	return keys
}

// Arguments returns the ordered argument list for kind. Every missing, null,
// unknown or mistyped key is reported together in one ConfigurationError.
func Arguments(kind executable.Kind, bag Bag) ([]string, error) {
	layout, ok := layouts[kind]
	if !ok {
		return nil, pipeerr.Configuration("no argument layout for executable kind %s", kind)
	}

	args := make([]string, 0, len(layout))
	var problems []string
	for _, s := range layout {
		if s.key == "" {
			args = append(args, TransformMode)
			continue
		}
		v, present := bag[s.key]
		if !present {
			problems = append(problems, fmt.Sprintf("missing %q", s.key))
			continue
		}
		text, err := render(v, s.kind)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%q: %v", s.key, err))
			continue
		}
		args = append(args, text)
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, pipeerr.Configuration("%s arguments: %s", kind, strings.Join(problems, "; "))
	}
	return args, nil
}

func render(v cty.Value, kind argKind) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("value is unknown")
	}

	switch kind {
	case argString:
		if v.Type() != cty.String {
			return "", fmt.Errorf("want string, got %s", v.Type().FriendlyName())
		}
		s := v.AsString()
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("value is empty")
		}
		return s, nil
	case argNumber, argInteger:
		if v.Type() != cty.Number {
			return "", fmt.Errorf("want number, got %s", v.Type().FriendlyName())
		}
		bf := v.AsBigFloat()
		if kind == argInteger {
			if !bf.IsInt() {
				return "", fmt.Errorf("want whole number, got %s", bf.Text('g', -1))
			}
			i, acc := bf.Int64()
			if acc != big.Exact {
				return "", fmt.Errorf("value out of range")
			}
			return fmt.Sprintf("%d", i), nil
		}
		f, _ := bf.Float64()
		return model.FormatNumber(f), nil
	}
	return "", fmt.Errorf("unsupported argument kind")
}

// TransformBag assembles the transform stage parameters.
func TransformBag(p model.Parameters, inputFile, outputFile string) Bag {
	return Bag{
		KeyBoxSize:      cty.NumberFloatVal(p.BoxSize),
		KeyInputFile:    cty.StringVal(inputFile),
		KeyOutputFile:   cty.StringVal(outputFile),
		KeyObserverAxis: cty.NumberIntVal(int64(p.ObserverAxisCode())),
		KeyRedshift:     cty.NumberFloatVal(p.Redshift),
		KeyOmegaMatter:  cty.NumberFloatVal(p.OmegaMatter),
		KeyGridSize:     cty.NumberIntVal(int64(p.GridSize)),
	}
}

// SpectrumBag assembles the spectrum stage parameters; fftFile is the
// transform stage's output.
func SpectrumBag(p model.Parameters, fftFile, outputFile string) Bag {
	return Bag{
		KeyFFTFile:      cty.StringVal(fftFile),
		KeyOutputFile:   cty.StringVal(outputFile),
		KeyBinCount:     cty.NumberIntVal(int64(p.BinCount)),
		KeyObserverAxis: cty.NumberIntVal(int64(p.ObserverAxisCode())),
	}
}
