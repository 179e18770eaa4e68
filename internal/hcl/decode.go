package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/powerspec/internal/config"
	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

func runTargets(r *config.Run) map[string]any {
	return map[string]any{
		"mock_file": &r.MockFile,
		"space":     &r.Space,
		"axis":      &r.Axis,
		"box_size":  &r.BoxSize,
		"grid_size": &r.GridSize,
		"bin_count": &r.BinCount,
		"redshift":  &r.Redshift,
		"omega_m":   &r.OmegaMatter,
		"spectrum":  &r.SpectrumKind,
	}
}

func publishTargets(p *config.Publish) map[string]any {
	return map[string]any{
		"endpoint": &p.Endpoint,
		"bucket":   &p.Bucket,
		"region":   &p.Region,
		"prefix":   &p.Prefix,
		"use_ssl":  &p.UseSSL,
	}
}

// decodeAttributes evaluates every attribute of body and binds it to the
// matching target. Targets without an attribute keep their current value.
func decodeAttributes(ctx context.Context, body hcl.Body, evalCtx *hcl.EvalContext, targets map[string]any) error {
	logger := ctxlog.FromContext(ctx)

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := attrs[name]
		target, ok := targets[name]
		if !ok {
			return fmt.Errorf("%s: unsupported argument %q", attr.NameRange, name)
		}
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return diags
		}
		if err := decodeValue(val, target); err != nil {
			return fmt.Errorf("%s: failed to decode argument %q: %w", attr.NameRange, name, err)
		}
		logger.Debug("Decoded attribute.", "name", name, "type", val.Type().FriendlyName())
	}
	return nil
}

// decodeValue converts val to the cty type implied by target and stores it.
func decodeValue(val cty.Value, target any) error {
	var ty cty.Type
	switch target.(type) {
	case *string:
		ty = cty.String
	case *int, *float64:
		ty = cty.Number
	case *bool:
		ty = cty.Bool
	case *[]string:
		ty = cty.List(cty.String)
	default:
		return fmt.Errorf("unsupported target type %T", target)
	}

	if val.IsNull() {
		return fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return fmt.Errorf("value must be known")
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}
