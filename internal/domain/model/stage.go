package model

import (
	"fmt"
	"strings"
	"time"
)

// Stage is a position in the fixed delivery pipeline. Declaration order is pipeline order.
type Stage int

const (
	StagePlaced Stage = iota
	StageBuyerAssociated
	StageProcessing
	StagePacked
	StageShipped
	StageOutForDelivery
	StageDelivered
)

var stageLabels = [...]string{
	StagePlaced:          "Order Placed",
	StageBuyerAssociated: "Buyer Associated",
	StageProcessing:      "Processing",
	StagePacked:          "Packed",
	StageShipped:         "Shipped",
	StageOutForDelivery:  "Out for Delivery",
	StageDelivered:       "Delivered",
}

// Stages lists the pipeline in order.
func Stages() []Stage {
	out := make([]Stage, 0, len(stageLabels))
	for s := StagePlaced; s <= StageDelivered; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is part of the pipeline.
func (s Stage) Valid() bool {
	return s >= StagePlaced && s <= StageDelivered
}

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageLabels[s]
}

// Next returns the stage that follows s. The second result is false at the terminal stage.
func (s Stage) Next() (Stage, bool) {
	if !s.Valid() || s.IsTerminal() {
		return s, false
	}
	return s + 1, true
}

// IsTerminal is true only for Delivered.
func (s Stage) IsTerminal() bool {
	return s == StageDelivered
}

// ParseStage resolves a stage label, case-insensitively.
func ParseStage(label string) (Stage, error) {
	label = strings.TrimSpace(label)
	for i, l := range stageLabels {
		if strings.EqualFold(l, label) {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", label)
}

func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Transition names a state-changing operation for authorization purposes.
type Transition string

const (
	TransitionCreate          Transition = "create"
	TransitionAssociateBuyer  Transition = "associate-buyer"
	TransitionAssociateSeller Transition = "associate-seller"
	TransitionAdvance         Transition = "advance"
	TransitionDelete          Transition = "delete"
)

// Policy holds the configurable answers to lifecycle questions the pipeline leaves open.
type Policy struct {
	// AdminStageOverride lets admins advance stages on behalf of the seller.
	AdminStageOverride bool
	// DeleteBeforeDeliveredOnly forbids deleting delivered orders.
	DeleteBeforeDeliveredOnly bool
}

// RequiredRoles returns the roles allowed to perform t under policy p.
func (p Policy) RequiredRoles(t Transition) []Role {
	switch t {
	case TransitionCreate:
		return []Role{RoleBuyer}
	case TransitionAssociateBuyer, TransitionAssociateSeller:
		return []Role{RoleAdmin}
	case TransitionAdvance:
		if p.AdminStageOverride {
			return []Role{RoleSeller, RoleAdmin}
		}
		return []Role{RoleSeller}
	case TransitionDelete:
		return []Role{RoleSeller, RoleAdmin}
	}
	return nil
}

// Permits reports whether role r may perform t under policy p.
func (p Policy) Permits(t Transition, r Role) bool {
	for _, allowed := range p.RequiredRoles(t) {
		if allowed == r {
			return true
		}
	}
	return false
}

// StageTimestamps maps each reached stage to the time it was entered.
// Keys encode as stage labels through Stage's text marshaling.
type StageTimestamps map[Stage]time.Time
