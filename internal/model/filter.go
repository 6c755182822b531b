package model

// RecordFilter narrows record listings.
type RecordFilter struct {
	Type   string // exact type name, empty = all types
	Name   string // substring match on display name
	Limit  int    // 0 = no limit
	Offset int
}
