package models

import "time"

// Room is a reservable resource. Binary available/unavailable per interval,
// capacity is informational only.
type Room struct {
	ID        int64     `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Capacity  int64     `yaml:"capacity" json:"capacity"`
	Surface   float64   `yaml:"surface" json:"surface,omitempty"`
	Equipment string    `yaml:"equipment" json:"equipment,omitempty"`
	CreatedAt time.Time `yaml:"-" json:"created_at"`
	UpdatedAt time.Time `yaml:"-" json:"updated_at"`
}
