package domain

import "time"

// WalkInName is the display name given to customers created on the fly
// during a POS sale when no name was provided.
const WalkInName = "Walk-in Customer"

type Customer struct {
	ID          string    `json:"id"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name"`
	TotalOrders int       `json:"totalOrders"`
	TotalSpent  int64     `json:"totalSpent"`
	IsNew       bool      `json:"isNew"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Customer) RecordID() string      { return c.ID }
func (c *Customer) SetRecordID(id string) { c.ID = id }

// Clone returns a copy sharing no memory with the receiver.
func (c *Customer) Clone() *Customer {
	cp := *c
	return &cp
}
