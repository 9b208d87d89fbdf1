package bar

import (
	"strconv"

	"github.com/barline/barline/pkg/errors"
)

// The property resolver maps the loosely-typed string bag carried by the
// wire protocol onto typed node fields. It is a pure function: it works on a
// copy and either returns the fully-updated node or an error naming the
// offending key, never a partially-applied one.
//
// Resolution happens in two passes with strict ordering:
//
//  1. Shorthand pass: "padding" sets all four edges, "padding_horizontal" /
//     "padding_vertical" set left+right / top+bottom; same for "margin".
//  2. Specific pass: every explicitly named key, so a specific edge key
//     overrides whatever a shorthand set in the same call.
//
// The "display" key is never applied here: changing display moves the node
// between collections, which is the store's job.

// applyFunc applies a single raw property value onto a node.
type applyFunc func(n *Node, key, raw string) error

// stringField sets an optional string field. The empty string clears it back
// to unset.
func stringField(get func(n *Node) *string) applyFunc {
	return func(n *Node, _, raw string) error {
		*get(n) = raw
		return nil
	}
}

// floatField sets an optional 32-bit float field. Clearable fields treat the
// empty string as "unset"; for all others an empty value is a parse failure.
func floatField(get func(n *Node) **float32, clearable bool) applyFunc {
	return func(n *Node, key, raw string) error {
		if raw == "" {
			if clearable {
				*get(n) = nil
				return nil
			}
			return errors.New(errors.ErrCodeInvalidValue, "invalid %s: empty value", key)
		}
		v64, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidValue, "invalid %s: %q", key, raw)
		}
		v := float32(v64)
		*get(n) = &v
		return nil
	}
}

func applyPosition(n *Node, key, raw string) error {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidValue, "invalid %s: %q", key, raw)
	}
	n.Position = int32(v)
	return nil
}

// Edge accessors shared by the shorthand table and the specific table.
var (
	padLeft   = func(n *Node) **float32 { return &n.Style.PaddingLeft }
	padRight  = func(n *Node) **float32 { return &n.Style.PaddingRight }
	padTop    = func(n *Node) **float32 { return &n.Style.PaddingTop }
	padBottom = func(n *Node) **float32 { return &n.Style.PaddingBottom }
	marLeft   = func(n *Node) **float32 { return &n.Style.MarginLeft }
	marRight  = func(n *Node) **float32 { return &n.Style.MarginRight }
	marTop    = func(n *Node) **float32 { return &n.Style.MarginTop }
	marBottom = func(n *Node) **float32 { return &n.Style.MarginBottom }
)

// shorthandOrder fixes precedence within the shorthand pass: the all-edge
// keys apply before the axis keys, so "padding" plus "padding_vertical" in
// one call yields vertical edges from the axis key.
var shorthandOrder = []string{
	"padding", "padding_horizontal", "padding_vertical",
	"margin", "margin_horizontal", "margin_vertical",
}

// shorthands maps a shorthand key to the edges it expands to.
var shorthands = map[string][]func(n *Node) **float32{
	"padding":            {padLeft, padRight, padTop, padBottom},
	"padding_horizontal": {padLeft, padRight},
	"padding_vertical":   {padTop, padBottom},
	"margin":             {marLeft, marRight, marTop, marBottom},
	"margin_horizontal":  {marLeft, marRight},
	"margin_vertical":    {marTop, marBottom},
}

// propTable is the single source of truth for every specific property key:
// which field it targets, how it parses, and whether the empty string clears
// it or fails.
var propTable = map[string]applyFunc{
	// Text and reference attributes
	"label":        stringField(func(n *Node) *string { return &n.Label }),
	"label_color":  stringField(func(n *Node) *string { return &n.LabelColor }),
	"icon":         stringField(func(n *Node) *string { return &n.Icon }),
	"icon_color":   stringField(func(n *Node) *string { return &n.IconColor }),
	"font_weight":  stringField(func(n *Node) *string { return &n.FontWeight }),
	"font_family":  stringField(func(n *Node) *string { return &n.FontFamily }),
	"click_action": stringField(func(n *Node) *string { return &n.ClickAction }),
	"image":        stringField(func(n *Node) *string { return &n.Image }),
	"parent":       stringField(func(n *Node) *string { return &n.Parent }),

	// Style colors and alignment
	"background_color":       stringField(func(n *Node) *string { return &n.Style.BackgroundColor }),
	"border_color":           stringField(func(n *Node) *string { return &n.Style.BorderColor }),
	"shadow_color":           stringField(func(n *Node) *string { return &n.Style.ShadowColor }),
	"align":                  stringField(func(n *Node) *string { return &n.Style.Align }),
	"notch_align":            stringField(func(n *Node) *string { return &n.Style.NotchAlign }),
	"hover_background_color": stringField(func(n *Node) *string { return &n.Style.HoverBackgroundColor }),
	"hover_border_color":     stringField(func(n *Node) *string { return &n.Style.HoverBorderColor }),

	// Style metrics. Only width and gap are clearable; an empty value for
	// any other numeric field is a parse failure.
	"border_width":   floatField(func(n *Node) **float32 { return &n.Style.BorderWidth }, false),
	"corner_radius":  floatField(func(n *Node) **float32 { return &n.Style.CornerRadius }, false),
	"padding_left":   floatField(padLeft, false),
	"padding_right":  floatField(padRight, false),
	"padding_top":    floatField(padTop, false),
	"padding_bottom": floatField(padBottom, false),
	"margin_left":    floatField(marLeft, false),
	"margin_right":   floatField(marRight, false),
	"margin_top":     floatField(marTop, false),
	"margin_bottom":  floatField(marBottom, false),
	"shadow_radius":  floatField(func(n *Node) **float32 { return &n.Style.ShadowRadius }, false),
	"width":          floatField(func(n *Node) **float32 { return &n.Style.Width }, true),
	"height":         floatField(func(n *Node) **float32 { return &n.Style.Height }, false),
	"gap":            floatField(func(n *Node) **float32 { return &n.Style.Gap }, true),
	"font_size":      floatField(func(n *Node) **float32 { return &n.FontSize }, false),

	"position": applyPosition,
}

// ApplyProperties resolves props onto a copy of n and returns the updated
// node. On any failure the original node is untouched and the returned error
// names the offending key; the caller must not commit anything.
func ApplyProperties(n Node, props map[string]string) (Node, error) {
	out := n.Clone()

	// Shorthand pass
	for _, key := range shorthandOrder {
		raw, ok := props[key]
		if !ok {
			continue
		}
		if raw == "" {
			return Node{}, errors.New(errors.ErrCodeInvalidValue, "invalid %s: empty value", key)
		}
		v64, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return Node{}, errors.New(errors.ErrCodeInvalidValue, "invalid %s: %q", key, raw)
		}
		v := float32(v64)
		for _, edge := range shorthands[key] {
			ev := v
			*edge(&out) = &ev
		}
	}

	// Specific pass: explicit keys override the shorthand expansion.
	for key, raw := range props {
		if _, isShorthand := shorthands[key]; isShorthand {
			continue
		}
		if key == "display" {
			// Intercepted by the store: changing display moves the node
			// between collections.
			continue
		}
		apply, ok := propTable[key]
		if !ok {
			return Node{}, errors.New(errors.ErrCodeUnknownProperty, "unknown property: %q", key)
		}
		if err := apply(&out, key, raw); err != nil {
			return Node{}, err
		}
	}

	return out, nil
}
