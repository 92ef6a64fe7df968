package ecs

import "strconv"

// Entity is a handle to a slot in a World. The low 32 bits hold the slot id
// and the high 32 bits the slot's generation. Destroying an entity bumps the
// generation, so a handle kept past its entity's lifetime (a collected
// pickup, a replaced player) stops resolving instead of reaching whatever
// reuses the slot. Slot ids start at 1, so the zero Entity is never live.
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

// String renders the handle as "<slot>v<generation>", e.g. "3v2", which is
// what shows up in logs and test failures.
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Valid reports whether e could name a slot at all. It says nothing about
// liveness; use World.IsAlive for that.
func (e Entity) Valid() bool {
	return e > 0
}
