package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

// FloatMode is a type for CSS property "float".
type FloatMode uint8

// Enum values for type FloatMode
const (
	FloatNone FloatMode = iota
	FloatLeft
	FloatRight
)

func (f FloatMode) String() string {
	switch f {
	case FloatLeft:
		return "left"
	case FloatRight:
		return "right"
	}
	return "none"
}

// ClearMode is a type for CSS property "clear".
type ClearMode uint8

// Enum values for type ClearMode
const (
	ClearNone ClearMode = iota
	ClearLeft
	ClearRight
	ClearBoth
)

func (c ClearMode) String() string {
	switch c {
	case ClearLeft:
		return "left"
	case ClearRight:
		return "right"
	case ClearBoth:
		return "both"
	}
	return "none"
}

// ObjectFit is a type for CSS property "object-fit", controlling how
// replaced content is fitted into its box.
type ObjectFit uint8

// Enum values for type ObjectFit
const (
	FitFill ObjectFit = iota
	FitContain
	FitCover
	FitNone
	FitScaleDown
)

func (f ObjectFit) String() string {
	switch f {
	case FitContain:
		return "contain"
	case FitCover:
		return "cover"
	case FitNone:
		return "none"
	case FitScaleDown:
		return "scale-down"
	}
	return "fill"
}

// FlexDirection is a type for CSS property "flex-direction".
type FlexDirection uint8

// Enum values for type FlexDirection
const (
	FlexRow FlexDirection = iota
	FlexRowReverse
	FlexColumn
	FlexColumnReverse
)

// IsColumn returns true for the column directions, i.e. a main axis
// running vertically.
func (d FlexDirection) IsColumn() bool {
	return d == FlexColumn || d == FlexColumnReverse
}

// IsReverse returns true for the reversed directions.
func (d FlexDirection) IsReverse() bool {
	return d == FlexRowReverse || d == FlexColumnReverse
}

func (d FlexDirection) String() string {
	switch d {
	case FlexRowReverse:
		return "row-reverse"
	case FlexColumn:
		return "column"
	case FlexColumnReverse:
		return "column-reverse"
	}
	return "row"
}

// FlexWrap is a type for CSS property "flex-wrap".
type FlexWrap uint8

// Enum values for type FlexWrap
const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

func (w FlexWrap) String() string {
	switch w {
	case Wrap:
		return "wrap"
	case WrapReverse:
		return "wrap-reverse"
	}
	return "nowrap"
}

// Justify is a type for CSS property "justify-content", the distribution
// of leftover space along the main axis.
type Justify uint8

// Enum values for type Justify
const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

func (j Justify) String() string {
	switch j {
	case JustifyEnd:
		return "flex-end"
	case JustifyCenter:
		return "center"
	case JustifySpaceBetween:
		return "space-between"
	case JustifySpaceAround:
		return "space-around"
	case JustifySpaceEvenly:
		return "space-evenly"
	}
	return "flex-start"
}

// Align is a type for the CSS properties "align-items" and "align-self".
type Align uint8

// Enum values for type Align
const (
	AlignAuto Align = iota // align-self: defer to the container's align-items
	AlignStretch
	AlignStart
	AlignEnd
	AlignCenter
	AlignBaseline
)

func (a Align) String() string {
	switch a {
	case AlignStretch:
		return "stretch"
	case AlignStart:
		return "flex-start"
	case AlignEnd:
		return "flex-end"
	case AlignCenter:
		return "center"
	case AlignBaseline:
		return "baseline"
	}
	return "auto"
}

// GridFlow is a type for CSS property "grid-auto-flow".
type GridFlow uint8

// Enum values for type GridFlow
const (
	GridFlowRow GridFlow = iota
	GridFlowColumn
	GridFlowRowDense
	GridFlowColumnDense
)

// IsColumn returns true if auto-placement fills columns first.
func (g GridFlow) IsColumn() bool {
	return g == GridFlowColumn || g == GridFlowColumnDense
}

// IsDense returns true if auto-placement may backfill earlier gaps.
func (g GridFlow) IsDense() bool {
	return g == GridFlowRowDense || g == GridFlowColumnDense
}

func (g GridFlow) String() string {
	switch g {
	case GridFlowColumn:
		return "column"
	case GridFlowRowDense:
		return "row dense"
	case GridFlowColumnDense:
		return "column dense"
	}
	return "row"
}
