package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// GameObject is the local composite representing one entity. It owns an
// ordered, name-keyed collection of behavior components. Component
// attachment happens once, at build time; simulation systems may mutate
// component state afterwards but never the set itself.
type GameObject struct {
	id         uuid.UUID
	name       string
	components []Component
	byName     map[string]Component
}

func NewGameObject(id uuid.UUID, name string) *GameObject {
	return &GameObject{
		id:     id,
		name:   name,
		byName: make(map[string]Component),
	}
}

func (g *GameObject) ID() uuid.UUID {
	return g.id
}

func (g *GameObject) Name() string {
	return g.name
}

// AddComponent attaches c, wires its back-pointer and starts it.
// Insertion order is preserved; attaching two components with the same
// name is an error.
func (g *GameObject) AddComponent(c Component) error {
	if _, exists := g.byName[c.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.Name())
	}

	c.SetGameObject(g)
	g.components = append(g.components, c)
	g.byName[c.Name()] = c
	c.Start()
	return nil
}

// Component returns the component registered under name.
func (g *GameObject) Component(name string) (Component, bool) {
	c, ok := g.byName[name]
	return c, ok
}

// Components returns the attached components in insertion order.
func (g *GameObject) Components() []Component {
	out := make([]Component, len(g.components))
	copy(out, g.components)
	return out
}

// Update ticks every component in insertion order.
func (g *GameObject) Update(deltaTime float32) {
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

// clearComponents detaches everything ahead of a rebuild.
func (g *GameObject) clearComponents() {
	for _, c := range g.components {
		c.SetGameObject(nil)
	}
	g.components = g.components[:0]
	g.byName = make(map[string]Component)
}
