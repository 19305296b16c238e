// Package model defines the core harness data types.
package model

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrIncompleteLedger is returned when a ledger is missing one of its core fields.
var ErrIncompleteLedger = errors.New("incomplete continuity ledger")

// Ledger is the continuity ledger: the authoritative scene-state snapshot.
type Ledger struct {
	LocationCurrent           string         `json:"location_current" yaml:"location_current"`
	LocationPrevious          string         `json:"location_previous,omitempty" yaml:"location_previous,omitempty"`
	TimeOfDay                 string         `json:"time_of_day" yaml:"time_of_day"`
	DateOrDayCount            string         `json:"date_or_day_count" yaml:"date_or_day_count"`
	ElapsedTimeSinceLastScene string         `json:"elapsed_time_since_last_scene" yaml:"elapsed_time_since_last_scene"`
	WhoPresent                []string       `json:"who_present" yaml:"who_present"`
	TransportLastLeg          map[string]any `json:"transport_last_leg,omitempty" yaml:"transport_last_leg,omitempty"`
	RelationshipElapsedTime   string         `json:"relationship_elapsed_time,omitempty" yaml:"relationship_elapsed_time,omitempty"`
	RelationshipLastContact   string         `json:"relationship_last_contact,omitempty" yaml:"relationship_last_contact,omitempty"`
	RelationshipStatusNote    string         `json:"relationship_status_note,omitempty" yaml:"relationship_status_note,omitempty"`
	PhysicalConstraints       map[string]any `json:"physical_constraints,omitempty" yaml:"physical_constraints,omitempty"`
	DevicesAndObjectsInScene  []string       `json:"devices_and_objects_in_scene" yaml:"devices_and_objects_in_scene"`
	SceneGoal                 string         `json:"scene_goal" yaml:"scene_goal"`
	ToneProfile               string         `json:"tone_profile" yaml:"tone_profile"`
}

// rawLedger mirrors Ledger with pointer core fields so absence can be told apart from "".
type rawLedger struct {
	LocationCurrent           *string        `yaml:"location_current"`
	LocationPrevious          *string        `yaml:"location_previous"`
	TimeOfDay                 *string        `yaml:"time_of_day"`
	DateOrDayCount            *string        `yaml:"date_or_day_count"`
	ElapsedTimeSinceLastScene *string        `yaml:"elapsed_time_since_last_scene"`
	WhoPresent                []string       `yaml:"who_present"`
	TransportLastLeg          map[string]any `yaml:"transport_last_leg"`
	RelationshipElapsedTime   *string        `yaml:"relationship_elapsed_time"`
	RelationshipLastContact   *string        `yaml:"relationship_last_contact"`
	RelationshipStatusNote    *string        `yaml:"relationship_status_note"`
	PhysicalConstraints       map[string]any `yaml:"physical_constraints"`
	DevicesAndObjectsInScene  []string       `yaml:"devices_and_objects_in_scene"`
	SceneGoal                 string         `yaml:"scene_goal"`
	ToneProfile               string         `yaml:"tone_profile"`
}

// ParseLedger decodes a ledger from YAML. Every core field must be present.
func ParseLedger(data []byte) (*Ledger, error) {
	var raw rawLedger
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}

	var missing []string
	required := []struct {
		name string
		val  *string
	}{
		{"location_current", raw.LocationCurrent},
		{"time_of_day", raw.TimeOfDay},
		{"date_or_day_count", raw.DateOrDayCount},
		{"elapsed_time_since_last_scene", raw.ElapsedTimeSinceLastScene},
	}
	for _, r := range required {
		if r.val == nil {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteLedger, strings.Join(missing, ", "))
	}

	return &Ledger{
		LocationCurrent:           *raw.LocationCurrent,
		LocationPrevious:          deref(raw.LocationPrevious),
		TimeOfDay:                 *raw.TimeOfDay,
		DateOrDayCount:            *raw.DateOrDayCount,
		ElapsedTimeSinceLastScene: *raw.ElapsedTimeSinceLastScene,
		WhoPresent:                raw.WhoPresent,
		TransportLastLeg:          raw.TransportLastLeg,
		RelationshipElapsedTime:   deref(raw.RelationshipElapsedTime),
		RelationshipLastContact:   deref(raw.RelationshipLastContact),
		RelationshipStatusNote:    deref(raw.RelationshipStatusNote),
		PhysicalConstraints:       raw.PhysicalConstraints,
		DevicesAndObjectsInScene:  raw.DevicesAndObjectsInScene,
		SceneGoal:                 raw.SceneGoal,
		ToneProfile:               raw.ToneProfile,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
