package model

import (
	"fmt"
	"strings"
)

// Process types accepted by the dashboard, as spelled by the portal.
const (
	TypeGoods    = "Bienes"
	TypeServices = "Servicios"
	TypeWorks    = "Obras"
)

// ProcessTypes lists the selectable process types in display order.
var ProcessTypes = []string{TypeGoods, TypeServices, TypeWorks}

// Filter holds the user-selected inputs of one render cycle.
type Filter struct {
	Year      int    `json:"year" validate:"gte=2008,lte=2100"`
	Region    string `json:"region" validate:"max=120"`
	Type      string `json:"type" validate:"oneof=Bienes Servicios Obras"`
	SinceYear int    `json:"since_year,omitempty" validate:"omitempty,gte=2008,lte=2100"`
}

// Key identifies the fetch tuple used for memoization and caching.
// SinceYear is applied after fetching and is not part of it.
type Key struct {
	Year   int
	Region string
	Type   string
}

// Key returns the fetch tuple for f. Region is trimmed so that padding does
// not produce distinct cache entries.
func (f Filter) Key() Key {
	return Key{
		Year:   f.Year,
		Region: strings.TrimSpace(f.Region),
		Type:   f.Type,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s/%s", k.Year, k.Region, k.Type)
}
