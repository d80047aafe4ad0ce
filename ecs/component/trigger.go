package component

type TriggerKind int

const (
	TriggerFinish TriggerKind = iota
	TriggerSwitch
	TriggerKill
)

// Trigger is a sensor area. Finish and switch triggers fire once.
type Trigger struct {
	ID    string
	Kind  TriggerKind
	Fired bool
}

var TriggerComponent = NewComponent[Trigger]()
