package entity

import (
	"encoding/json"
	"fmt"
)

// ShapeBuilder composes primitive shape entities.
type ShapeBuilder struct{}

func (ShapeBuilder) Build(obj *GameObject, rec Record) error {
	var p ShapePayload
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return fmt.Errorf("%w: shape payload: %v", ErrInvalidRecord, err)
	}

	if err := obj.AddComponent(&Transform{Position: p.Position}); err != nil {
		return err
	}
	return obj.AddComponent(&ShapeRender{
		Shape:      p.Shape,
		Dimensions: p.Dimensions,
		Color:      p.Color,
	})
}

// ModelBuilder composes mesh model entities.
type ModelBuilder struct{}

func (ModelBuilder) Build(obj *GameObject, rec Record) error {
	var p ModelPayload
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return fmt.Errorf("%w: model payload: %v", ErrInvalidRecord, err)
	}

	if err := obj.AddComponent(&Transform{Position: p.Position}); err != nil {
		return err
	}
	return obj.AddComponent(&ModelRender{
		ModelURL: p.ModelURL,
		Scale:    p.Scale,
	})
}

// LightBuilder composes light entities.
type LightBuilder struct{}

func (LightBuilder) Build(obj *GameObject, rec Record) error {
	var p LightPayload
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return fmt.Errorf("%w: light payload: %v", ErrInvalidRecord, err)
	}

	if err := obj.AddComponent(&Transform{Position: p.Position}); err != nil {
		return err
	}
	return obj.AddComponent(&LightSource{
		Color:         p.Color,
		Intensity:     p.Intensity,
		FalloffRadius: p.FalloffRadius,
	})
}
