package entity

import "time"

type PropertyType string

const (
	PropertyTypeSale PropertyType = "SALE"
	PropertyTypeRent PropertyType = "RENT"
)

// TerminalStatus resolves the status a completed purchase drives the
// property into: a sale listing ends up SOLD, a rental listing RENTED.
func (t PropertyType) TerminalStatus() PropertyStatus {
	if t == PropertyTypeRent {
		return PropertyStatusRented
	}
	return PropertyStatusSold
}

type PropertyStatus string

const (
	PropertyStatusActive  PropertyStatus = "ACTIVE"
	PropertyStatusPending PropertyStatus = "PENDING"
	PropertyStatusSold    PropertyStatus = "SOLD"
	PropertyStatusRented  PropertyStatus = "RENTED"
)

// IsTerminal reports whether no further transition is permitted.
func (s PropertyStatus) IsTerminal() bool {
	return s == PropertyStatusSold || s == PropertyStatusRented
}

type Property struct {
	ID           string         `bson:"_id,omitempty" json:"propertyId"`
	PropertyType PropertyType   `bson:"property_type" json:"propertyType"`
	Status       PropertyStatus `bson:"status" json:"status"`
	Price        float64        `bson:"price" json:"price"`
	OwnerUserID  string         `bson:"owner_user_id" json:"ownerUserId"`
	BrokerID     string         `bson:"broker_id,omitempty" json:"brokerId,omitempty"`
	Location     string         `bson:"location,omitempty" json:"location,omitempty"`
	Pincode      string         `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Description  string         `bson:"description,omitempty" json:"description,omitempty"`
	Amenities    string         `bson:"amenities,omitempty" json:"amenities,omitempty"`
	CreatedAt    time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updatedAt"`
	Version      int            `bson:"version" json:"-"`
}

// IsPurchasable reports whether a new purchase intent may target the
// property. Only ACTIVE properties are open to buyers; PENDING means a
// purchase is already in flight, SOLD/RENTED are terminal.
func (p *Property) IsPurchasable() bool {
	return p.Status == PropertyStatusActive
}
