package entity

// Component names used by the built-in builders.
const (
	ComponentTransform   = "transform"
	ComponentShapeRender = "shapeRender"
	ComponentModelRender = "modelRender"
	ComponentLightSource = "lightSource"
)

// Transform places an entity in the world. Every built-in builder
// attaches one.
type Transform struct {
	BaseComponent
	Position Vec3
}

func (t *Transform) Name() string { return ComponentTransform }

// ShapeRender draws a primitive shape.
type ShapeRender struct {
	BaseComponent
	Shape      string
	Dimensions Vec3
	Color      Color
}

func (s *ShapeRender) Name() string { return ComponentShapeRender }

// ModelRender draws a mesh fetched from a URL.
type ModelRender struct {
	BaseComponent
	ModelURL string
	Scale    Vec3
}

func (m *ModelRender) Name() string { return ComponentModelRender }

// LightSource contributes light to the scene.
type LightSource struct {
	BaseComponent
	Color         Color
	Intensity     float32
	FalloffRadius float32
}

func (l *LightSource) Name() string { return ComponentLightSource }
