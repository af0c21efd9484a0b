package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

// PropertyID enumerates the style properties the engine understands. The
// enumeration is closed: a handful of switch statements in this package
// dispatch over it, and the compiler drops declarations for any property
// not listed here.
type PropertyID uint16

// Enum values for type PropertyID
const (
	PropNone PropertyID = iota

	PropDisplay
	PropContent
	PropPosition
	PropTop
	PropRight
	PropBottom
	PropLeft
	PropFloat
	PropClear
	PropZIndex

	PropWidth
	PropHeight
	PropMinWidth
	PropMinHeight
	PropMaxWidth
	PropMaxHeight
	PropBoxSizing

	PropMarginTop
	PropMarginRight
	PropMarginBottom
	PropMarginLeft
	PropPaddingTop
	PropPaddingRight
	PropPaddingBottom
	PropPaddingLeft
	PropBorderTopWidth
	PropBorderRightWidth
	PropBorderBottomWidth
	PropBorderLeftWidth

	PropColor
	PropBackgroundColor
	PropBackgroundImage
	PropOpacity
	PropObjectFit
	PropTransform

	PropFontFamily
	PropFontSize
	PropFontStyle
	PropFontWeight
	PropLineHeight

	PropFlexDirection
	PropFlexWrap
	PropFlexGrow
	PropFlexShrink
	PropFlexBasis
	PropJustifyContent
	PropAlignItems
	PropAlignSelf

	PropGridTemplateColumns
	PropGridTemplateRows
	PropGridAutoFlow
	PropGridRowStart
	PropGridRowEnd
	PropGridColumnStart
	PropGridColumnEnd

	NumProperties
)

var propertyNames = [NumProperties]string{
	PropDisplay:             "display",
	PropContent:             "content",
	PropPosition:            "position",
	PropTop:                 "top",
	PropRight:               "right",
	PropBottom:              "bottom",
	PropLeft:                "left",
	PropFloat:               "float",
	PropClear:               "clear",
	PropZIndex:              "z-index",
	PropWidth:               "width",
	PropHeight:              "height",
	PropMinWidth:            "min-width",
	PropMinHeight:           "min-height",
	PropMaxWidth:            "max-width",
	PropMaxHeight:           "max-height",
	PropBoxSizing:           "box-sizing",
	PropMarginTop:           "margin-top",
	PropMarginRight:         "margin-right",
	PropMarginBottom:        "margin-bottom",
	PropMarginLeft:          "margin-left",
	PropPaddingTop:          "padding-top",
	PropPaddingRight:        "padding-right",
	PropPaddingBottom:       "padding-bottom",
	PropPaddingLeft:         "padding-left",
	PropBorderTopWidth:      "border-top-width",
	PropBorderRightWidth:    "border-right-width",
	PropBorderBottomWidth:   "border-bottom-width",
	PropBorderLeftWidth:     "border-left-width",
	PropColor:               "color",
	PropBackgroundColor:     "background-color",
	PropBackgroundImage:     "background-image",
	PropOpacity:             "opacity",
	PropObjectFit:           "object-fit",
	PropTransform:           "transform",
	PropFontFamily:          "font-family",
	PropFontSize:            "font-size",
	PropFontStyle:           "font-style",
	PropFontWeight:          "font-weight",
	PropLineHeight:          "line-height",
	PropFlexDirection:       "flex-direction",
	PropFlexWrap:            "flex-wrap",
	PropFlexGrow:            "flex-grow",
	PropFlexShrink:          "flex-shrink",
	PropFlexBasis:           "flex-basis",
	PropJustifyContent:      "justify-content",
	PropAlignItems:          "align-items",
	PropAlignSelf:           "align-self",
	PropGridTemplateColumns: "grid-template-columns",
	PropGridTemplateRows:    "grid-template-rows",
	PropGridAutoFlow:        "grid-auto-flow",
	PropGridRowStart:        "grid-row-start",
	PropGridRowEnd:          "grid-row-end",
	PropGridColumnStart:     "grid-column-start",
	PropGridColumnEnd:       "grid-column-end",
}

var propertyIDs = func() map[string]PropertyID {
	m := make(map[string]PropertyID, int(NumProperties))
	for id, name := range propertyNames {
		if name != "" {
			m[name] = PropertyID(id)
		}
	}
	return m
}()

// PropertyByName maps a CSS property name to its identifier.
func PropertyByName(name string) (PropertyID, bool) {
	id, ok := propertyIDs[name]
	return id, ok
}

func (p PropertyID) String() string {
	if p < NumProperties && propertyNames[p] != "" {
		return propertyNames[p]
	}
	return "<unknown property>"
}

// inheritedProperties flags the properties which propagate from parent to
// child during composition if the child leaves them unset.
var inheritedProperties = [NumProperties]bool{
	PropColor:      true,
	PropFontFamily: true,
	PropFontSize:   true,
	PropFontStyle:  true,
	PropFontWeight: true,
	PropLineHeight: true,
}

// sideIndex maps one property of a 4-sided block (offsets, margins,
// padding, border widths) to its index in top/right/bottom/left order.
func sideIndex(p PropertyID) int {
	switch {
	case p >= PropTop && p <= PropLeft:
		return int(p - PropTop)
	case p >= PropMarginTop && p <= PropMarginLeft:
		return int(p - PropMarginTop)
	case p >= PropPaddingTop && p <= PropPaddingLeft:
		return int(p - PropPaddingTop)
	case p >= PropBorderTopWidth && p <= PropBorderLeftWidth:
		return int(p - PropBorderTopWidth)
	}
	return 0
}

// copyProperty transfers a single property value from one style set to
// another, duplicating any heap-allocated parts. This is the machinery
// behind both explicit `inherit` and the implicit inheritance of text
// properties.
func copyProperty(dst *Style, src *Style, prop PropertyID, alloc *Allocator) error {
	switch prop {
	case PropDisplay:
		dst.Display = src.Display
	case PropContent:
		dst.Content = src.Content
	case PropPosition:
		off := dst.Flow.Position.Offsets
		dst.Flow.Position = src.Flow.Position
		dst.Flow.Position.Offsets = off
	case PropTop, PropRight, PropBottom, PropLeft:
		i := sideIndex(prop)
		dst.Flow.Position.Offsets[i] = src.Flow.Position.Offsets[i]
	case PropFloat:
		dst.Flow.Float = src.Flow.Float
	case PropClear:
		dst.Flow.Clear = src.Flow.Clear
	case PropZIndex:
		dst.Flow.ZIndex = src.Flow.ZIndex
	case PropWidth:
		dst.Dimens.W = src.Dimens.W
	case PropHeight:
		dst.Dimens.H = src.Dimens.H
	case PropMinWidth:
		dst.Dimens.MinW = src.Dimens.MinW
	case PropMinHeight:
		dst.Dimens.MinH = src.Dimens.MinH
	case PropMaxWidth:
		dst.Dimens.MaxW = src.Dimens.MaxW
	case PropMaxHeight:
		dst.Dimens.MaxH = src.Dimens.MaxH
	case PropBoxSizing:
		dst.Dimens.BorderBox = src.Dimens.BorderBox
	case PropMarginTop, PropMarginRight, PropMarginBottom, PropMarginLeft:
		i := sideIndex(prop)
		dst.Spacing.Margins[i] = src.Spacing.Margins[i]
	case PropPaddingTop, PropPaddingRight, PropPaddingBottom, PropPaddingLeft:
		i := sideIndex(prop)
		dst.Spacing.Padding[i] = src.Spacing.Padding[i]
	case PropBorderTopWidth, PropBorderRightWidth, PropBorderBottomWidth, PropBorderLeftWidth:
		i := sideIndex(prop)
		dst.Spacing.BorderWidth[i] = src.Spacing.BorderWidth[i]
	case PropColor:
		dst.Text.Color = src.Text.Color
	case PropBackgroundColor:
		dst.Visual.BgColor = src.Visual.BgColor
	case PropBackgroundImage:
		dst.Visual.BackgroundImage = src.Visual.BackgroundImage
	case PropOpacity:
		dst.Visual.Opacity = src.Visual.Opacity
	case PropObjectFit:
		dst.Visual.ObjectFit = src.Visual.ObjectFit
	case PropTransform:
		if src.Visual.Transform == nil {
			dst.Visual.Transform = nil
		} else {
			t := *src.Visual.Transform
			dst.Visual.Transform = &t
		}
	case PropFontFamily:
		dst.Text.FontFamily = src.Text.FontFamily
	case PropFontSize:
		dst.Text.FontSize = src.Text.FontSize
	case PropFontStyle:
		dst.Text.FontStyle = src.Text.FontStyle
	case PropFontWeight:
		dst.Text.FontWeight = src.Text.FontWeight
	case PropLineHeight:
		dst.Text.LineHeight = src.Text.LineHeight
	case PropFlexDirection:
		dst.Flex.Direction = src.Flex.Direction
	case PropFlexWrap:
		dst.Flex.Wrap = src.Flex.Wrap
	case PropFlexGrow:
		dst.Flex.Grow = src.Flex.Grow
	case PropFlexShrink:
		dst.Flex.Shrink = src.Flex.Shrink
	case PropFlexBasis:
		dst.Flex.Basis = src.Flex.Basis
	case PropJustifyContent:
		dst.Flex.Justify = src.Flex.Justify
	case PropAlignItems:
		dst.Flex.AlignItems = src.Flex.AlignItems
	case PropAlignSelf:
		dst.Flex.AlignSelf = src.Flex.AlignSelf
	case PropGridTemplateColumns:
		tracks, err := cloneTracks(src.Grid.TemplateCols, alloc)
		if err != nil {
			return err
		}
		dst.Grid.TemplateCols = tracks
	case PropGridTemplateRows:
		tracks, err := cloneTracks(src.Grid.TemplateRows, alloc)
		if err != nil {
			return err
		}
		dst.Grid.TemplateRows = tracks
	case PropGridAutoFlow:
		dst.Grid.AutoFlow = src.Grid.AutoFlow
	case PropGridRowStart:
		dst.Grid.RowStart = src.Grid.RowStart
	case PropGridRowEnd:
		dst.Grid.RowEnd = src.Grid.RowEnd
	case PropGridColumnStart:
		dst.Grid.ColStart = src.Grid.ColStart
	case PropGridColumnEnd:
		dst.Grid.ColEnd = src.Grid.ColEnd
	}
	return nil
}

func cloneTracks(tracks []TrackSize, alloc *Allocator) ([]TrackSize, error) {
	if len(tracks) == 0 {
		return nil, nil
	}
	if err := alloc.claim(int64(len(tracks)) * 16); err != nil {
		return nil, err
	}
	c := make([]TrackSize, len(tracks))
	copy(c, tracks)
	return c, nil
}
