// Package entity turns server-described entity records into local
// composite objects. A registry maps each entity kind to the builder that
// knows which behavior components that kind carries; the dispatcher drives
// the registry over incoming records.
package entity

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind discriminates entity records for builder dispatch.
type Kind string

const (
	KindShape Kind = "shape"
	KindModel Kind = "model"
	KindLight Kind = "light"
)

// Record is a server-originated description of one world object. Records
// are immutable once received; an update for the same ID arrives as a new
// record.
type Record struct {
	ID      uuid.UUID       `json:"id"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeRecord parses a wire frame into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if rec.ID == uuid.Nil {
		return Record{}, fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if rec.Kind == "" {
		return Record{}, fmt.Errorf("%w: missing kind", ErrInvalidRecord)
	}
	return rec, nil
}

// Vec3 is a position, dimension or scale triple.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Color is an 8-bit RGB triple.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ShapePayload is the kind-specific payload of a shape record.
type ShapePayload struct {
	Shape      string `json:"shape"`
	Position   Vec3   `json:"position"`
	Dimensions Vec3   `json:"dimensions"`
	Color      Color  `json:"color"`
}

// ModelPayload is the kind-specific payload of a model record.
type ModelPayload struct {
	ModelURL string `json:"modelURL"`
	Position Vec3   `json:"position"`
	Scale    Vec3   `json:"scale"`
}

// LightPayload is the kind-specific payload of a light record.
type LightPayload struct {
	Position      Vec3    `json:"position"`
	Color         Color   `json:"color"`
	Intensity     float32 `json:"intensity"`
	FalloffRadius float32 `json:"falloffRadius"`
}
