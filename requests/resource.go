// Package requests owns the Resource data model and the waiting-resource
// registry.
package requests

import "github.com/ridefleet-sim/ridefleet/roadnet"

// State is the resource's position in its lifecycle: Announced ->
// Waiting -> {Assigned | Expired}.
type State int

const (
	Announced State = iota
	Waiting
	Assigned
	Expired
)

func (s State) String() string {
	switch s {
	case Announced:
		return "Announced"
	case Waiting:
		return "Waiting"
	case Assigned:
		return "Assigned"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// ID identifies a Resource; monotonic in announce order.
type ID int64

// Resource models a single ride request.
type Resource struct {
	ID           ID
	AnnounceTime int64
	PickupLoc    roadnet.LocationOnRoad
	DropoffLoc   roadnet.LocationOnRoad
	TripDuration int64 // seconds, pickup to dropoff under the oracle
	Fare         float64
	MaxLifetime  int64 // seconds
	State        State
}

// ExpirationTime returns announce_time + max_lifetime.
func (r *Resource) ExpirationTime() int64 {
	return r.AnnounceTime + r.MaxLifetime
}

// RemainingLifetime returns the resource's expiration time minus now;
// may be negative if the resource has already expired.
func (r *Resource) RemainingLifetime(now int64) int64 {
	return r.ExpirationTime() - now
}
