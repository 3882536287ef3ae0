package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

type ObjectData struct {
	*resolv.Object
}

var Object = donburi.NewComponentType[ObjectData]()

// Overlaps reports whether two objects' bounding boxes intersect. resolv's
// Check only narrows by cell, so trigger volumes confirm with this.
func (o ObjectData) Overlaps(other *resolv.Object) bool {
	return o.X < other.X+other.W && other.X < o.X+o.W &&
		o.Y < other.Y+other.H && other.Y < o.Y+o.H
}
