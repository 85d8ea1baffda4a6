package entity

// Component is one unit of behavior attached to a GameObject.
type Component interface {
	// Name keys the component within its GameObject; one component per
	// name.
	Name() string
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GameObject() *GameObject
}

// BaseComponent provides the default GameObject plumbing so concrete
// components only implement what they need.
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GameObject() *GameObject {
	return b.gameObject
}
