package models

// Party is the role a caller plays on a specific agreement.
type Party string

const (
	PartyClient    Party = "client"
	PartyDeveloper Party = "developer"
	PartyNeither   Party = ""
	// PartySystem is used by internal jobs such as reconciliation.
	PartySystem Party = "system"
)

// Counterpart returns the other side of the agreement.
func (p Party) Counterpart() Party {
	switch p {
	case PartyClient:
		return PartyDeveloper
	case PartyDeveloper:
		return PartyClient
	default:
		return PartyNeither
	}
}

// Actor identifies the caller of an operation, as asserted by the upstream
// authentication gateway. Either field may be empty.
type Actor struct {
	UserID        string
	WalletAddress string
}

// SystemActor is the identity used by scheduled jobs.
var SystemActor = Actor{UserID: "system"}

// IsSystem reports whether the actor is the internal system identity.
func (a Actor) IsSystem() bool { return a == SystemActor }

// IsZero reports whether the actor carries no identity at all.
func (a Actor) IsZero() bool { return a.UserID == "" && a.WalletAddress == "" }
