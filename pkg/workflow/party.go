// Package workflow holds the pure state machines for agreements, milestones,
// modifications, escrow and transactions. Functions here mutate the records
// they are given and never perform I/O; callers persist the result in one
// atomic commit.
package workflow

import (
	"strings"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
)

// ResolveParty returns the role the actor plays on the agreement. A user ID
// match wins over a wallet match; wallets compare case-insensitively.
func ResolveParty(a *models.Agreement, actor models.Actor) models.Party {
	if actor.UserID != "" {
		if a.ClientID == actor.UserID {
			return models.PartyClient
		}
		if a.DeveloperID == actor.UserID {
			return models.PartyDeveloper
		}
	}
	if actor.WalletAddress != "" {
		if sameWallet(a.ClientWallet, actor.WalletAddress) {
			return models.PartyClient
		}
		if sameWallet(a.DeveloperWallet, actor.WalletAddress) {
			return models.PartyDeveloper
		}
	}
	return models.PartyNeither
}

func sameWallet(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

// UnlinkedWallet returns the party's wallet when that party has no user
// reference yet.
func UnlinkedWallet(a *models.Agreement, p models.Party) (string, bool) {
	switch p {
	case models.PartyClient:
		return a.ClientWallet, a.ClientID == "" && a.ClientWallet != ""
	case models.PartyDeveloper:
		return a.DeveloperWallet, a.DeveloperID == "" && a.DeveloperWallet != ""
	}
	return "", false
}

// LinkUser sets the party's user reference if it is still empty.
func LinkUser(a *models.Agreement, p models.Party, userID string) {
	if userID == "" {
		return
	}
	switch p {
	case models.PartyClient:
		if a.ClientID == "" {
			a.ClientID = userID
		}
	case models.PartyDeveloper:
		if a.DeveloperID == "" {
			a.DeveloperID = userID
		}
	}
}

func requireParty(got models.Party, want models.Party, action string) error {
	if got != want {
		return apperrors.Authorization("only the %s can %s", want, action)
	}
	return nil
}

func requireEitherParty(got models.Party, action string) error {
	if got != models.PartyClient && got != models.PartyDeveloper {
		return apperrors.Authorization("only a party to the agreement can %s", action)
	}
	return nil
}

func counterparty(a *models.Agreement, p models.Party) models.Counterparty {
	if p == models.PartyClient {
		return models.Counterparty{UserID: a.ClientID, WalletAddress: a.ClientWallet}
	}
	return models.Counterparty{UserID: a.DeveloperID, WalletAddress: a.DeveloperWallet}
}
