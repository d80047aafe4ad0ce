package component

// Obstacle is solid until a klod holding one of Requires touches it.
type Obstacle struct {
	ID       string
	Requires []string
	Broken   bool
}

var ObstacleComponent = NewComponent[Obstacle]()
