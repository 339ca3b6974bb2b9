package entity

import "time"

type RegionPreference struct {
	UserID    string
	Region    Region
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
