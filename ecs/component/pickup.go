package component

// Bone is an absorbable pickup.
type Bone struct {
	ID     string
	Weight float64
	Radius float64
	Power  string
}

var BoneComponent = NewComponent[Bone]()
