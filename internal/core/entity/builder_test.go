package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shapeRecord(t *testing.T, id uuid.UUID) Record {
	t.Helper()
	payload, err := json.Marshal(ShapePayload{
		Shape:      "cube",
		Position:   Vec3{X: 1, Y: 2, Z: 3},
		Dimensions: Vec3{X: 1, Y: 1, Z: 1},
		Color:      Color{R: 255, G: 0, B: 0},
	})
	require.NoError(t, err)
	return Record{ID: id, Kind: KindShape, Payload: payload}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(KindShape, &ShapeBuilder{}))

	b, err := r.Builder(KindShape)
	require.NoError(t, err)
	assert.NotNil(t, b)

	_, err = r.Builder(Kind("zone"))
	assert.ErrorIs(t, err, ErrUnknownEntityKind)
}

func TestRegistryGuards(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.Register(KindShape, nil), ErrNilBuilder)

	require.NoError(t, r.Register(KindShape, &ShapeBuilder{}))
	assert.ErrorIs(t, r.Register(KindShape, &ShapeBuilder{}), ErrDuplicateBuilder)
}

func TestDefaultRegistryKinds(t *testing.T) {
	r := DefaultRegistry()
	for _, kind := range []Kind{KindShape, KindModel, KindLight} {
		_, err := r.Builder(kind)
		assert.NoError(t, err, "kind %s", kind)
	}
}

func TestShapeBuilderComponents(t *testing.T) {
	rec := shapeRecord(t, uuid.New())
	obj := NewGameObject(rec.ID, string(rec.Kind))

	require.NoError(t, (&ShapeBuilder{}).Build(obj, rec))

	components := obj.Components()
	require.Len(t, components, 2)
	assert.Equal(t, ComponentTransform, components[0].Name())
	assert.Equal(t, ComponentShapeRender, components[1].Name())

	c, ok := obj.Component(ComponentShapeRender)
	require.True(t, ok)
	render := c.(*ShapeRender)
	assert.Equal(t, "cube", render.Shape)
	assert.Equal(t, Color{R: 255}, render.Color)
	assert.Same(t, obj, render.GameObject())

	c, ok = obj.Component(ComponentTransform)
	require.True(t, ok)
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, c.(*Transform).Position)
}

func TestLightBuilderComponents(t *testing.T) {
	payload, err := json.Marshal(LightPayload{
		Color:         Color{R: 10, G: 20, B: 30},
		Intensity:     0.8,
		FalloffRadius: 12,
	})
	require.NoError(t, err)
	rec := Record{ID: uuid.New(), Kind: KindLight, Payload: payload}

	obj := NewGameObject(rec.ID, string(rec.Kind))
	require.NoError(t, (&LightBuilder{}).Build(obj, rec))

	c, ok := obj.Component(ComponentLightSource)
	require.True(t, ok)
	light := c.(*LightSource)
	assert.Equal(t, float32(0.8), light.Intensity)
	assert.Equal(t, float32(12), light.FalloffRadius)
}

func TestGameObjectDuplicateComponent(t *testing.T) {
	obj := NewGameObject(uuid.New(), "shape")
	require.NoError(t, obj.AddComponent(&Transform{}))
	assert.ErrorIs(t, obj.AddComponent(&Transform{}), ErrDuplicateComponent)
	assert.Len(t, obj.Components(), 1)
}
