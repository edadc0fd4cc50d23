package portal3d

import (
	"fmt"
	"iter"
)

// PortalID is the stable index of a PortalEffect within a PortalRegistry.
type PortalID int

// NoPortal is the PortalID of an unregistered or unlinked portal.
const NoPortal PortalID = -1

// PortalRegistry owns the links between portals. Each PortalEffect added to it gets a PortalID that stays valid for the
// lifetime of the registry; linked portals look their partner up through the registry every time they need its camera,
// surface object or mesh, so no portal holds a pointer into another.
type PortalRegistry struct {
	portals []*PortalEffect
	links   []PortalID
}

// NewPortalRegistry returns an empty PortalRegistry.
func NewPortalRegistry() *PortalRegistry {
	return &PortalRegistry{}
}

// Add registers the PortalEffect and returns its PortalID. A PortalEffect can only belong to one registry.
func (registry *PortalRegistry) Add(effect *PortalEffect) PortalID {

	if effect.registry != nil {
		panic("Error: PortalRegistry.Add() was given a PortalEffect that is already registered.")
	}

	id := PortalID(len(registry.portals))
	registry.portals = append(registry.portals, effect)
	registry.links = append(registry.links, NoPortal)

	effect.registry = registry
	effect.id = id

	return id

}

func (registry *PortalRegistry) valid(id PortalID) bool {
	return id >= 0 && int(id) < len(registry.portals) && registry.portals[id] != nil
}

func (registry *PortalRegistry) mustBeValid(caller string, id PortalID) {
	if !registry.valid(id) {
		panic(fmt.Sprintf("Error: PortalRegistry.%s() was given an unknown PortalID (%d).", caller, id))
	}
}

// Link links the two portals to each other. Any partner either of them was linked to before is unlinked.
func (registry *PortalRegistry) Link(a, b PortalID) {

	registry.mustBeValid("Link", a)
	registry.mustBeValid("Link", b)

	if a == b {
		panic("Error: PortalRegistry.Link() cannot link a portal to itself.")
	}

	registry.Unlink(a)
	registry.Unlink(b)

	registry.links[a] = b
	registry.links[b] = a

	Logger().Info("portals linked", "a", int(a), "b", int(b))

}

// Unlink removes the link between the portal and its partner, if it has one.
func (registry *PortalRegistry) Unlink(id PortalID) {

	registry.mustBeValid("Unlink", id)

	partner := registry.links[id]
	if partner == NoPortal {
		return
	}

	registry.links[id] = NoPortal
	registry.links[partner] = NoPortal

}

// Remove unregisters the portal, unlinking it first. Its PortalID is not reused.
func (registry *PortalRegistry) Remove(id PortalID) {

	registry.mustBeValid("Remove", id)

	registry.Unlink(id)

	effect := registry.portals[id]
	effect.registry = nil
	effect.id = NoPortal
	registry.portals[id] = nil

}

// Get returns the PortalEffect registered under id, or nil if there isn't one.
func (registry *PortalRegistry) Get(id PortalID) *PortalEffect {
	if !registry.valid(id) {
		return nil
	}
	return registry.portals[id]
}

// Partner returns the PortalID the portal is linked to, or NoPortal.
func (registry *PortalRegistry) Partner(id PortalID) PortalID {
	if !registry.valid(id) {
		return NoPortal
	}
	return registry.links[id]
}

// Linked returns true if the portal is linked to a partner.
func (registry *PortalRegistry) Linked(id PortalID) bool {
	return registry.Partner(id) != NoPortal
}

// Len returns the number of portals currently registered.
func (registry *PortalRegistry) Len() int {
	count := 0
	for _, p := range registry.portals {
		if p != nil {
			count++
		}
	}
	return count
}

// All iterates over every registered portal in PortalID order.
func (registry *PortalRegistry) All() iter.Seq2[PortalID, *PortalEffect] {
	return func(yield func(PortalID, *PortalEffect) bool) {
		for i, p := range registry.portals {
			if p == nil {
				continue
			}
			if !yield(PortalID(i), p) {
				return
			}
		}
	}
}
