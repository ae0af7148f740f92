package types

/*

	These are the "immutable" core types of the radial face,
	provided for cross-package use (e.g. Plugins, hosts) and testing.

	There are no functions defined here.
	Constructors and helpers are housed in their own packages.
	Methods taking these types should create local aliases,
	for example: type Ops []Rt.DrawOp

*/

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Field is one displayed unit of time.
// The order is also the ring order, innermost to outermost.
type Field int

const (
	Second     Field = iota // innermost, most volatile
	Minute                  //
	Hour                    //
	DayOfMonth              //
	Month                   // outermost
)

// FieldCount is the number of rings on the face
const FieldCount = 5

// TimeSnapshot is read from the wall clock once per draw.
// It is never mutated after creation.
type TimeSnapshot struct {
	Second     int
	Minute     int
	Hour       int       // 0-23
	DayOfMonth int       // 1-31
	Month      int       // 1-12
	Year       int       // needed for leap years
	Zone       string    // IANA zone identifier
	Time       time.Time // the instant this snapshot was taken
}

// FieldSpec is the progress of one field.
// Value is what gets printed on the label,
// Current and Max drive the sweep: 0 <= Current <= Max
type FieldSpec struct {
	Field   Field
	Value   int
	Current int
	Max     int
}

// RingStyle holds the per ring paint values, derived from the ring index
type RingStyle struct {
	Index       int
	Fill        colorful.Color
	Remainder   colorful.Color
	StrokeWidth float64
	TextSize    float64
}

// ModeState is written only by host events.
// The face is interactive when Visible && !Ambient.
type ModeState struct {
	Visible bool
	Ambient bool
}

// Rect uses screen coordinates, y grows downward
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// LineCap is the stroke end style for arcs
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// OpKind names the primitive a DrawOp asks the surface for
type OpKind string

const (
	OpClear  OpKind = "clear"
	OpArc    OpKind = "arc"
	OpCircle OpKind = "circle"
	OpText   OpKind = "text"
)

// DrawOp is one surface instruction.
// Angles are degrees, clockwise from 3 o'clock (y-down screen space).
// Colors are hex strings so a Frame can go straight to JSON.
type DrawOp struct {
	Kind   OpKind  `json:"kind"`
	Ring   int     `json:"ring"`             // ring index, -1 for the background
	Rect   Rect    `json:"rect,omitzero"`    // arc bounding rectangle
	Start  float64 `json:"start,omitempty"`  // arc start angle
	Sweep  float64 `json:"sweep,omitempty"`  // arc extent
	Color  string  `json:"color,omitempty"`  // stroke, fill, or text color
	Width  float64 `json:"width,omitempty"`  // stroke width
	Cap    LineCap `json:"cap,omitempty"`    // stroke cap
	X      float64 `json:"x,omitempty"`      // circle center or text anchor
	Y      float64 `json:"y,omitempty"`      //
	Radius float64 `json:"radius,omitempty"` // circle radius
	Inner  string  `json:"inner,omitempty"`  // gradient color at the center
	Outer  string  `json:"outer,omitempty"`  // gradient color at GradR
	GradR  float64 `json:"gradR,omitempty"`  // gradient radius
	Text   string  `json:"text,omitempty"`   //
	Size   float64 `json:"size,omitempty"`   // text size
}

// Frame is the ordered result of a single render
type Frame struct {
	Version int       `json:"version"`
	Ambient bool      `json:"ambient"`
	Time    time.Time `json:"time"`
	Zone    string    `json:"zone"`
	Ops     []DrawOp  `json:"ops"`
}
