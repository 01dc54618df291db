package domain

// AspectName identifies an anatomical region. The set is closed.
type AspectName string

const (
	AspectBody      AspectName = "body"
	AspectFace      AspectName = "face"
	AspectLeftHand  AspectName = "left_hand"
	AspectRightHand AspectName = "right_hand"
)

// AllAspectNames returns every known region in anatomical priority order.
func AllAspectNames() []AspectName {
	return []AspectName{AspectBody, AspectFace, AspectLeftHand, AspectRightHand}
}

// Valid reports whether n is one of the known regions.
func (n AspectName) Valid() bool {
	switch n {
	case AspectBody, AspectFace, AspectLeftHand, AspectRightHand:
		return true
	}
	return false
}

func (n AspectName) String() string { return string(n) }
