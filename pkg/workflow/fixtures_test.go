package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/chris/gig-agreements/pkg/models"
	"github.com/stretchr/testify/require"
)

var (
	t0          = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clientActor = models.Actor{UserID: "client-1", WalletAddress: "0xC11e47000000000000000000000000000000C11e"}
	devActor    = models.Actor{UserID: "dev-1", WalletAddress: "0xDe7e100000000000000000000000000000000De7"}
	txHash      = "0x" + strings.Repeat("ab", 32)
)

func amt(s string) models.Amount { return models.MustAmount(s) }

func ptr[T any](v T) *T { return &v }

// draftAgreement creates a pre-priced draft with one milestone per value.
func draftAgreement(t *testing.T, values ...string) (*models.Agreement, []*models.Milestone) {
	t.Helper()
	in := AgreementInput{
		Title:           "Build a storefront",
		Description:     "Next.js storefront with checkout",
		DeveloperID:     devActor.UserID,
		DeveloperWallet: devActor.WalletAddress,
		Currency:        "ETH",
	}
	for i, v := range values {
		in.Milestones = append(in.Milestones, MilestoneInput{Title: "Milestone " + string(rune('A'+i)), Value: amt(v)})
	}
	a, ms, err := NewAgreement(clientActor, in, t0)
	require.NoError(t, err)
	return a, ms
}

// activeAgreement walks a pre-priced agreement through the pricing
// handshake and escrow funding.
func activeAgreement(t *testing.T, values ...string) (*models.Agreement, []*models.Milestone) {
	t.Helper()
	a, ms := draftAgreement(t, values...)
	require.NoError(t, SubmitToDeveloper(a, models.PartyClient, t0))
	created, err := DeveloperAccept(a, ms, models.PartyDeveloper, Pricing{}, t0)
	require.NoError(t, err)
	require.Nil(t, created)
	_, err = ClientApprove(a, models.PartyClient, EscrowFunding{TxHash: txHash, Network: "sepolia", ContractAddress: "0xEscrow"}, t0)
	require.NoError(t, err)
	require.Equal(t, models.AgreementActive, a.Status)
	return a, ms
}

// submitted starts and submits m.
func submitted(t *testing.T, a *models.Agreement, m *models.Milestone) {
	t.Helper()
	if m.Status == models.MilestonePending {
		require.NoError(t, StartMilestone(a, m, models.PartyDeveloper, t0))
	}
	require.NoError(t, SubmitMilestone(a, m, models.PartyDeveloper, devActor, Submission{Notes: "done"}, t0))
}
