package patch

// Behavior is the per-kind logic of a unit. Output is called by
// [Unit.UpdateOutput] whenever a downstream reader pulls the unit. It may
// be called zero or many times per tick and must not assume Step already
// ran this tick.
type Behavior interface {
	Output(u *Unit) float64
}

// Stepper is implemented by behaviours with per-tick state. Step runs once
// per unit per tick and must not pull other units.
type Stepper interface {
	Step(u *Unit)
}

// Triggerer overrides the default trigger rule of [Unit.UpdateTrigger].
// Source units implement it to report their own edges.
type Triggerer interface {
	Trigger(u *Unit) int
}

// Resetter is implemented by behaviours whose sequencing state can be
// rewound to the first step.
type Resetter interface {
	Reset(u *Unit)
}

// Persister is implemented by behaviours with type-specific properties.
// Properties is captured into snapshots; Apply restores it after spawn.
type Persister interface {
	Properties() Meta
	Apply(m Meta)
}

// Attacher is called once after a unit has been spawned and its sockets
// exist.
type Attacher interface {
	Attach(u *Unit)
}

// Detacher is called once before a unit is removed, after its sockets
// have been disconnected.
type Detacher interface {
	Detach(u *Unit)
}

// RenderQueuer receives render requests from upstream graphics units.
// inlet is the index of the inlet the request arrived on.
type RenderQueuer interface {
	QueueRender(u *Unit, inlet int)
}

// Presser is implemented by units driven by a momentary button.
type Presser interface {
	Press()
}

// KeyListener is implemented by units that watch the keyboard.
type KeyListener interface {
	KeyDown(key string)
	KeyUp(key string)
}
