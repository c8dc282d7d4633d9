package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByTicketID filters ticket-scoped rows
type ByTicketID struct {
	TicketID uuid.UUID
}

func (s ByTicketID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ticket_id = ?", s.TicketID)
}

// ByTraceID filters rows belonging to one agent exchange
type ByTraceID struct {
	TraceID uuid.UUID
}

func (s ByTraceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("trace_id = ?", s.TraceID)
}

// OwnedByCustomer filters tickets by the customer who opened them
type OwnedByCustomer struct {
	CustomerID uuid.UUID
}

func (s OwnedByCustomer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("customer_id = ?", s.CustomerID)
}

// ByStatus filters tickets by lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByCategory filters knowledge-base articles by category
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ByEmail filters users by email
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByKind filters metrics by kind (kra / rgqs)
type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}
