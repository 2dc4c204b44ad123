package ecs

// Notification names a synchronous event delivered to the observers of one
// entity.
type Notification string

// Listener receives a notification payload.
type Listener func(payload any)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Observers maps entities to ordered listener lists per notification name.
//
// Listener lists are copy-on-write: a dispatch iterates the list that was
// registered when it started, so listeners added or cancelled from inside a
// listener take effect on the next dispatch. Not safe for concurrent use.
type Observers struct {
	byEntity map[Entity]map[Notification][]listenerEntry
	nextID   uint64
}

// Subscription identifies one registered listener.
type Subscription struct {
	obs    *Observers
	entity Entity
	name   Notification
	id     uint64
}

// Cancel removes the listener. It reports whether anything was removed.
func (s Subscription) Cancel() bool {
	if s.obs == nil || s.id == 0 {
		return false
	}
	return s.obs.remove(s.entity, s.name, s.id)
}

// Subscribe appends fn to the listeners of name on e.
func (o *Observers) Subscribe(e Entity, name Notification, fn Listener) Subscription {
	if o == nil || fn == nil || !e.Valid() {
		return Subscription{}
	}
	if o.byEntity == nil {
		o.byEntity = make(map[Entity]map[Notification][]listenerEntry)
	}
	byName := o.byEntity[e]
	if byName == nil {
		byName = make(map[Notification][]listenerEntry)
		o.byEntity[e] = byName
	}
	o.nextID++
	old := byName[name]
	list := make([]listenerEntry, len(old), len(old)+1)
	copy(list, old)
	byName[name] = append(list, listenerEntry{id: o.nextID, fn: fn})
	return Subscription{obs: o, entity: e, name: name, id: o.nextID}
}

// Observe subscribes a typed listener. Payloads of another type are ignored.
func Observe[T any](o *Observers, e Entity, name Notification, fn func(T)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return o.Subscribe(e, name, func(payload any) {
		if v, ok := payload.(T); ok {
			fn(v)
		}
	})
}

// Dispatch calls every listener of name on e in registration order and
// returns once all of them have run. Zero listeners is a no-op.
func (o *Observers) Dispatch(e Entity, name Notification, payload any) {
	if o == nil {
		return
	}
	for _, l := range o.byEntity[e][name] {
		l.fn(payload)
	}
}

// Count returns the number of listeners of name on e.
func (o *Observers) Count(e Entity, name Notification) int {
	if o == nil {
		return 0
	}
	return len(o.byEntity[e][name])
}

// Clear drops every listener registered on e.
func (o *Observers) Clear(e Entity) {
	if o == nil {
		return
	}
	delete(o.byEntity, e)
}

func (o *Observers) remove(e Entity, name Notification, id uint64) bool {
	byName := o.byEntity[e]
	old := byName[name]
	for i, l := range old {
		if l.id != id {
			continue
		}
		list := make([]listenerEntry, 0, len(old)-1)
		list = append(list, old[:i]...)
		list = append(list, old[i+1:]...)
		if len(list) == 0 {
			delete(byName, name)
		} else {
			byName[name] = list
		}
		if len(byName) == 0 {
			delete(o.byEntity, e)
		}
		return true
	}
	return false
}
