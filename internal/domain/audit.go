package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Audit actions recorded against the ledger.
const (
	AuditActionEntryCreate = "entry.create"
	AuditActionExitSettle  = "exit.settle"
	AuditActionUserCreate  = "user.create"
)

// ActorSystem is the recorded actor when no staff user is on the context.
const ActorSystem = "system"

// AuditLog is one row of the audit trail: which staff user performed
// which action against which token. Exit settlements carry the amount
// charged. Audit rows for settlements are written in the same
// transaction as the settlement itself, so the trail never shows an
// action that did not commit.
type AuditLog struct {
	ID           string
	Actor        string
	Action       string
	TokenID      string
	VehicleClass VehicleClass
	Amount       *decimal.Decimal
	CreatedAt    time.Time
}
