package patch

// Presenter is the presentation layer: it draws units and cables and
// receives selection changes. The registry calls it synchronously from the
// main loop. Implementations must not call back into the registry.
type Presenter interface {
	SpawnUnit(h Handle, key string, pos Vec3)
	DestroyUnit(h Handle)
	MoveUnit(h Handle, pos Vec3)
	SpawnCable(c Cable)
	DestroyCable(c Cable)
	Selected(h Handle, selected bool)
}

// NopPresenter ignores every notification.
type NopPresenter struct{}

func (NopPresenter) SpawnUnit(Handle, string, Vec3) {}
func (NopPresenter) DestroyUnit(Handle)             {}
func (NopPresenter) MoveUnit(Handle, Vec3)          {}
func (NopPresenter) SpawnCable(Cable)               {}
func (NopPresenter) DestroyCable(Cable)             {}
func (NopPresenter) Selected(Handle, bool)          {}

var _ Presenter = NopPresenter{}
