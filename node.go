package reel

// Node is a logical transform element. Every animatable property is a
// reactive cell, so it can hold a literal, be tweened, or be bound to a
// formula over other cells:
//
//	label.X.Bind(func() float64 { return box.X.Get() + 20 })
//
// Node carries no drawing state; renderers read its State.
type Node struct {
	// Identity. ID is assigned by the scene the node is added to.
	ID   uint32
	Name string

	// Transform (local)
	X, Y     *Cell[float64]
	ScaleX   *Cell[float64]
	ScaleY   *Cell[float64]
	Rotation *Cell[float64]

	// Appearance hints for renderers
	Alpha   *Cell[float64]
	Color   *Cell[Color]
	Visible bool

	// Ordering
	ZIndex int

	// Metadata
	UserData any

	disposed bool
}

// NodeState is a plain snapshot of a Node's properties.
type NodeState struct {
	ID       uint32  `json:"id"`
	Name     string  `json:"name"`
	ZIndex   int     `json:"z"`
	Visible  bool    `json:"visible"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
	Alpha    float64 `json:"alpha"`
	Color    Color   `json:"color"`
}

// NewNode creates a visible node at the origin with unit scale and full
// alpha.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		X:        NewCell(0.0),
		Y:        NewCell(0.0),
		ScaleX:   NewCell(1.0),
		ScaleY:   NewCell(1.0),
		Rotation: NewCell(0.0),
		Alpha:    NewCell(1.0),
		Color:    NewCell(ColorWhite),
		Visible:  true,
	}
}

// Priority implements Element.
func (n *Node) Priority() int {
	return n.ZIndex
}

// SetZIndex sets the node's paint priority.
func (n *Node) SetZIndex(z int) {
	n.ZIndex = z
}

// SetPosition sets X and Y to literal values.
func (n *Node) SetPosition(x, y float64) {
	n.X.Set(x)
	n.Y.Set(y)
}

// Position returns the node's current position.
func (n *Node) Position() Vec2 {
	return Vec2{X: n.X.Get(), Y: n.Y.Get()}
}

// State evaluates every property and returns a snapshot.
func (n *Node) State() NodeState {
	return NodeState{
		ID:       n.ID,
		Name:     n.Name,
		ZIndex:   n.ZIndex,
		Visible:  n.Visible,
		X:        n.X.Get(),
		Y:        n.Y.Get(),
		ScaleX:   n.ScaleX.Get(),
		ScaleY:   n.ScaleY.Get(),
		Rotation: n.Rotation.Get(),
		Alpha:    n.Alpha.Get(),
		Color:    n.Color.Get(),
	}
}

// Dispose marks the node as disposed. Tweens targeting it stop on their next
// update.
func (n *Node) Dispose() {
	n.disposed = true
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}
