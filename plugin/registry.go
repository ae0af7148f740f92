package plugin

import (
	"fmt"
	"sort"

	Rf "github.com/maroda/radial/face"
	Rt "github.com/maroda/radial/types"
)

// Styles is a global map of the published face variants.
// They share one renderer and differ only in Style values.
var Styles = map[string]func() Rf.Style{
	// flat caps from 3 o'clock, labels on gradient discs
	"classic": Rf.DefaultStyle,

	// 12 o'clock start, brighter remainders, round caps
	"future": func() Rf.Style {
		s := Rf.DefaultStyle()
		s.Name = "future"
		s.StartAngle = 270
		s.RemainderDamping = 2.2
		s.StrokeCap = Rt.CapRound
		return s
	},

	// rings only
	"minimal": func() Rf.Style {
		s := Rf.DefaultStyle()
		s.Name = "minimal"
		s.StartAngle = 270
		s.DrawLabels = false
		s.LabelBackdrop = false
		return s
	},

	// 12 o'clock start, bare labels without the backdrop
	"halo": func() Rf.Style {
		s := Rf.DefaultStyle()
		s.Name = "halo"
		s.StartAngle = 270
		s.RemainderDamping = 2.5
		s.LabelBackdrop = false
		return s
	},
}

// StyleLookup returns a fresh copy of a named variant
func StyleLookup(name string) (Rf.Style, error) {
	factory, ok := Styles[name]
	if !ok {
		return Rf.Style{}, fmt.Errorf("unknown style: %s", name)
	}
	return factory(), nil
}

// StyleNames lists the registered variants in order
func StyleNames() []string {
	names := make([]string, 0, len(Styles))
	for n := range Styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
