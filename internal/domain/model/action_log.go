package model

import (
	"fmt"
	"time"
)

// Actions recorded in the log.
const (
	ActionPlaced           = "order placed"
	ActionBuyerAssociated  = "buyer associated"
	ActionSellerAssociated = "seller associated"
)

// ActionAdvanced describes a stage advance to s.
func ActionAdvanced(s Stage) string {
	return fmt.Sprintf("stage advanced to %s", s)
}

// Actor is the identity reference stored with a log entry.
type Actor struct {
	ID   int64
	Name string
	Role Role
}

// ActorOf captures the parts of an identity the log keeps.
func ActorOf(id Identity) Actor {
	return Actor{ID: id.ID, Name: id.Name, Role: id.Role}
}

// ActionLogEntry is an immutable audit record owned by the order it documents.
type ActionLogEntry struct {
	ID        int64
	OrderKey  int64
	Action    string
	Actor     Actor
	Timestamp time.Time
}

// NewLogEntry builds an entry for the given order; the key is filled in by storage for new orders.
func NewLogEntry(order *Order, action string, actor Identity, at time.Time) ActionLogEntry {
	return ActionLogEntry{OrderKey: order.ID, Action: action, Actor: ActorOf(actor), Timestamp: at}
}

// StageDuration is the time spent between entering From and entering To.
type StageDuration struct {
	From    Stage
	To      Stage
	Elapsed time.Duration
}

// Key renders the pair as "<From> -> <To>".
func (d StageDuration) Key() string {
	return d.From.String() + " -> " + d.To.String()
}

// StageDurations computes elapsed time between each consecutive pair of reached stages,
// in pipeline order. It relies on StageTimestamps, not on the action log.
func (o *Order) StageDurations() []StageDuration {
	var (
		out      []StageDuration
		prev     Stage
		prevAt   time.Time
		havePrev bool
	)
	for _, stage := range Stages() {
		at, ok := o.StageTimestamps[stage]
		if !ok {
			continue
		}
		if havePrev {
			out = append(out, StageDuration{From: prev, To: stage, Elapsed: at.Sub(prevAt)})
		}
		prev, prevAt, havePrev = stage, at, true
	}
	return out
}
