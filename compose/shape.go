package compose

import "fmt"

// Shape names one arrangement of containers.
type Shape int

// The shapes. The zero Shape is not one of them.
const (
	Simple Shape = iota + 1
	Alternative
	Related
	RelatedAlternative
	Mixed
	MixedAlternative
	MixedRelated
	MixedRelatedAlternative
)

var shapeNames = map[Shape]string{
	Simple:                  "Simple",
	Alternative:             "Alternative",
	Related:                 "Related",
	RelatedAlternative:      "RelatedAlternative",
	Mixed:                   "Mixed",
	MixedAlternative:        "MixedAlternative",
	MixedRelated:            "MixedRelated",
	MixedRelatedAlternative: "MixedRelatedAlternative",
}

// String returns the name of the shape.
func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// shapes is indexed by mixed, related, alternative.
var shapes = [2][2][2]Shape{
	{
		{Simple, Alternative},
		{Related, RelatedAlternative},
	},
	{
		{Mixed, MixedAlternative},
		{MixedRelated, MixedRelatedAlternative},
	},
}

func index(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Select returns the shape for the content. It panics with
// ErrUnreachableShape if the table has no shape for it, which is a bug.
func Select(c Content) Shape {
	s := shapes[index(c.Mixed)][index(c.Related)][index(c.Alternative)]
	if _, ok := shapeNames[s]; !ok {
		panic(ErrUnreachableShape)
	}
	return s
}

// Content returns the content the shape is selected for.
func (s Shape) Content() Content {
	for m := range shapes {
		for r := range shapes[m] {
			for a, shape := range shapes[m][r] {
				if shape == s {
					return Content{m == 1, r == 1, a == 1}
				}
			}
		}
	}
	panic(ErrUnreachableShape)
}

// Shapes returns every shape in table order.
func Shapes() []Shape {
	ss := make([]Shape, 0, 8)
	for m := range shapes {
		for r := range shapes[m] {
			ss = append(ss, shapes[m][r][:]...)
		}
	}
	return ss
}
