package ecs

import "strconv"

// Entity is a generational handle. The zero value never refers to a live entity.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Valid reports whether e could refer to an entity. It does not check liveness.
func (e Entity) Valid() bool {
	return e.id() > 0
}

// Ref is an optional entity handle. Use Present or Absent to build one so the
// "no entity" branch is explicit at every call site.
type Ref struct {
	entity  Entity
	present bool
}

// Present wraps e as a set reference. An invalid handle yields Absent.
func Present(e Entity) Ref {
	if !e.Valid() {
		return Ref{}
	}
	return Ref{entity: e, present: true}
}

// Absent returns the empty reference.
func Absent() Ref {
	return Ref{}
}

// Get returns the referenced entity and whether one is set.
func (r Ref) Get() (Entity, bool) {
	return r.entity, r.present
}

// IsPresent reports whether the reference is set.
func (r Ref) IsPresent() bool {
	return r.present
}

func (r Ref) String() string {
	if !r.present {
		return "none"
	}
	return r.entity.String()
}
