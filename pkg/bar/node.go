// Package bar owns the authoritative, in-memory layout state for the bar:
// the node model, the property resolver, the per-display node store, and the
// lock-guarded service that serializes access to it.
package bar

import (
	"github.com/barline/barline/pkg/errors"
)

// NodeType classifies a node. Only TypeItem is a leaf; every other type is a
// container and may hold children.
type NodeType string

// The closed set of node types.
const (
	TypeItem   NodeType = "item"
	TypeRow    NodeType = "row"
	TypeColumn NodeType = "column"
	TypeBox    NodeType = "box"
)

// ParseNodeType converts a wire string to a NodeType.
// The empty string defaults to TypeItem.
func ParseNodeType(s string) (NodeType, error) {
	switch NodeType(s) {
	case "":
		return TypeItem, nil
	case TypeItem, TypeRow, TypeColumn, TypeBox:
		return NodeType(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidValue, "invalid node_type: %q", s)
	}
}

// Container reports whether nodes of this type may hold children.
func (t NodeType) Container() bool {
	switch t {
	case TypeRow, TypeColumn, TypeBox:
		return true
	default:
		return false
	}
}

// Style is a bag of optional visual attributes. Absence means "unset", not
// zero, so every numeric field is a pointer. The JSON tags double as the
// property keys accepted by the resolver.
type Style struct {
	BackgroundColor string   `json:"background_color,omitempty"`
	BorderColor     string   `json:"border_color,omitempty"`
	BorderWidth     *float32 `json:"border_width,omitempty"`
	CornerRadius    *float32 `json:"corner_radius,omitempty"`

	PaddingLeft   *float32 `json:"padding_left,omitempty"`
	PaddingRight  *float32 `json:"padding_right,omitempty"`
	PaddingTop    *float32 `json:"padding_top,omitempty"`
	PaddingBottom *float32 `json:"padding_bottom,omitempty"`

	MarginLeft   *float32 `json:"margin_left,omitempty"`
	MarginRight  *float32 `json:"margin_right,omitempty"`
	MarginTop    *float32 `json:"margin_top,omitempty"`
	MarginBottom *float32 `json:"margin_bottom,omitempty"`

	ShadowColor  string   `json:"shadow_color,omitempty"`
	ShadowRadius *float32 `json:"shadow_radius,omitempty"`

	Width  *float32 `json:"width,omitempty"`
	Height *float32 `json:"height,omitempty"`
	Gap    *float32 `json:"gap,omitempty"`

	Align      string `json:"align,omitempty"`
	NotchAlign string `json:"notch_align,omitempty"`

	HoverBackgroundColor string `json:"hover_background_color,omitempty"`
	HoverBorderColor     string `json:"hover_border_color,omitempty"`
}

// Node is one layout element in the per-display hierarchy. It is the unified
// type for all contexts: store entries, notification payloads, and wire DTOs
// all share this shape.
//
// Name is a durable identity, globally unique across all displays, and the
// only way nodes reference each other: Parent is a name, never a pointer.
type Node struct {
	Name     string   `json:"name"`
	Type     NodeType `json:"node_type"`
	Parent   string   `json:"parent,omitempty"`
	Position int32    `json:"position"`

	// Display is the identifier of the display this node currently belongs
	// to. DisplayExplicit distinguishes "pinned by the user" from "defaulted
	// to the main display"; pinned nodes are anchors during migration.
	Display         uint32 `json:"display"`
	DisplayExplicit bool   `json:"display_explicit,omitempty"`

	Style Style `json:"style"`

	Label      string `json:"label,omitempty"`
	LabelColor string `json:"label_color,omitempty"`
	Icon       string `json:"icon,omitempty"`
	IconColor  string `json:"icon_color,omitempty"`

	FontSize   *float32 `json:"font_size,omitempty"`
	FontWeight string   `json:"font_weight,omitempty"`
	FontFamily string   `json:"font_family,omitempty"`

	ClickAction string `json:"click_action,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Container reports whether this node may hold children.
func (n *Node) Container() bool { return n.Type.Container() }

// Clone returns a deep copy of the node. The pointer-typed optional fields
// are duplicated so mutating the copy never aliases the original.
func (n Node) Clone() Node {
	c := n
	c.FontSize = clonePtr(n.FontSize)
	c.Style.BorderWidth = clonePtr(n.Style.BorderWidth)
	c.Style.CornerRadius = clonePtr(n.Style.CornerRadius)
	c.Style.PaddingLeft = clonePtr(n.Style.PaddingLeft)
	c.Style.PaddingRight = clonePtr(n.Style.PaddingRight)
	c.Style.PaddingTop = clonePtr(n.Style.PaddingTop)
	c.Style.PaddingBottom = clonePtr(n.Style.PaddingBottom)
	c.Style.MarginLeft = clonePtr(n.Style.MarginLeft)
	c.Style.MarginRight = clonePtr(n.Style.MarginRight)
	c.Style.MarginTop = clonePtr(n.Style.MarginTop)
	c.Style.MarginBottom = clonePtr(n.Style.MarginBottom)
	c.Style.ShadowRadius = clonePtr(n.Style.ShadowRadius)
	c.Style.Width = clonePtr(n.Style.Width)
	c.Style.Height = clonePtr(n.Style.Height)
	c.Style.Gap = clonePtr(n.Style.Gap)
	return c
}

func clonePtr(p *float32) *float32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Display describes one physical output surface as reported by the host.
// The store never enumerates displays itself; it only consumes the list the
// host pushes and the IsMain marker.
type Display struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	IsMain bool   `json:"is_main"`
}
