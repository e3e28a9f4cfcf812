package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/events"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
	"github.com/chris/gig-agreements/pkg/storage/memory"
	"github.com/chris/gig-agreements/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0       = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	client   = models.Actor{UserID: "client-1", WalletAddress: "0xc11e470000000000000000000000000000000c11"}
	dev      = models.Actor{UserID: "dev-1", WalletAddress: "0xde7e100000000000000000000000000000000de7"}
	stranger = models.Actor{UserID: "someone-else"}
	txHash   = "0x" + strings.Repeat("ab", 32)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func newTestService(t *testing.T) (*Service, *memory.Store, *recordingPublisher) {
	t.Helper()
	store := memory.New()
	pub := &recordingPublisher{}
	s := New(store, nil, nil, pub)
	s.Now = func() time.Time { return t0 }
	return s, store, pub
}

func agreementInput(values ...string) workflow.AgreementInput {
	in := workflow.AgreementInput{
		Title:           "Build a storefront",
		Description:     "Storefront with checkout",
		DeveloperID:     dev.UserID,
		DeveloperWallet: dev.WalletAddress,
		Currency:        "ETH",
	}
	for i, v := range values {
		in.Milestones = append(in.Milestones, workflow.MilestoneInput{
			Title: "Milestone " + string(rune('A'+i)),
			Value: models.MustAmount(v),
		})
	}
	return in
}

// activeAgreement creates a pre-priced agreement and funds it.
func activeAgreement(t *testing.T, s *Service, values ...string) *AgreementDetails {
	t.Helper()
	ctx := context.Background()

	d, err := s.CreateAgreement(ctx, client, agreementInput(values...))
	require.NoError(t, err)
	id := d.Agreement.ID

	_, err = s.SubmitAgreement(ctx, client, id)
	require.NoError(t, err)
	_, err = s.DeveloperAccept(ctx, dev, id, workflow.Pricing{})
	require.NoError(t, err)
	d, err = s.ClientApprove(ctx, client, id, workflow.EscrowFunding{TxHash: txHash, Network: "sepolia", ContractAddress: "0xescrow"})
	require.NoError(t, err)
	require.Equal(t, models.AgreementActive, d.Agreement.Status)
	return d
}

// submittedMilestone starts and submits the milestone.
func submittedMilestone(t *testing.T, s *Service, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := s.StartMilestone(ctx, dev, id)
	require.NoError(t, err)
	_, err = s.SubmitMilestone(ctx, dev, id, SubmitInput{Notes: "done"})
	require.NoError(t, err)
}

func TestAgreementLifecycle(t *testing.T) {
	ctx := context.Background()
	s, store, pub := newTestService(t)

	d := activeAgreement(t, s, "1000")
	id := d.Agreement.ID
	require.Len(t, d.Milestones, 1)
	m := d.Milestones[0]

	started, err := s.StartMilestone(ctx, dev, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AgreementInProgress, started.Agreement.Status)

	_, err = s.SubmitMilestone(ctx, dev, m.ID, SubmitInput{Notes: "deployed to staging"})
	require.NoError(t, err)

	approved, err := s.ApproveMilestone(ctx, client, m.ID, workflow.Approval{Rating: 5, Feedback: "great"})
	require.NoError(t, err)
	require.NotNil(t, approved.Transaction)
	assert.Equal(t, models.MilestoneApproved, approved.Milestone.Status)
	assert.True(t, approved.Milestone.Financials.IsPaid)
	assert.Equal(t, models.AgreementAwaitingFinalApproval, approved.Agreement.Status)
	assert.Equal(t, "1000", approved.Agreement.Financials.ReleasedAmount.String())
	assert.Equal(t, "0", approved.Agreement.Escrow.HeldAmount.String())

	done, err := s.Complete(ctx, client, id)
	require.NoError(t, err)
	assert.Equal(t, models.AgreementCompleted, done.Agreement.Status)
	assert.Equal(t, models.EscrowCompleted, done.Agreement.Escrow.Status)
	assert.NotNil(t, done.Agreement.Project.ActualEndDate)

	clientStats, err := store.GetUser(ctx, client.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), clientStats.CompletedProjects)
	assert.Equal(t, "1000", clientStats.TotalSpent.String())
	devStats, err := store.GetUser(ctx, dev.UserID)
	require.NoError(t, err)
	assert.Equal(t, "1000", devStats.TotalEarned.String())

	txs, err := s.ListTransactions(ctx, dev, id)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, models.TxEscrowDeposit, txs[0].Type)
	assert.Equal(t, models.TxMilestonePayment, txs[1].Type)

	types := pub.types()
	assert.Equal(t, events.AgreementCreated, types[0])
	assert.Contains(t, types, events.TransactionRecorded)
	assert.Contains(t, types, events.MilestoneUpdated)
}

func TestGetAgreement(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	d, err := s.CreateAgreement(ctx, client, agreementInput("10", "20"))
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		got, err := s.GetAgreement(ctx, dev, d.Agreement.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PartyDeveloper, got.Party)
		assert.Len(t, got.Milestones, 2)
		assert.Equal(t, "30", got.Agreement.Financials.TotalValue.String())
	})

	t.Run("Not A Party", func(t *testing.T) {
		_, err := s.GetAgreement(ctx, stranger, d.Agreement.ID)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := s.GetAgreement(ctx, client, "AGR-MISSING")
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})
}

func TestListAgreements(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		_, err := s.CreateAgreement(ctx, client, agreementInput("10"))
		require.NoError(t, err)
	}

	list, total, err := s.ListAgreements(ctx, dev, storage.ListFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, list, 2)

	list, total, err = s.ListAgreements(ctx, stranger, storage.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	_, _, err = s.ListAgreements(ctx, client, storage.ListFilter{Status: "bogus"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, _, err = s.ListAgreements(ctx, models.Actor{}, storage.ListFilter{})
	assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
}

func TestDeveloperAcceptReplacesMilestones(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestService(t)
	d, err := s.CreateAgreement(ctx, client, agreementInput("100", "200"))
	require.NoError(t, err)
	id := d.Agreement.ID
	_, err = s.SubmitAgreement(ctx, client, id)
	require.NoError(t, err)

	priced, err := s.DeveloperAccept(ctx, dev, id, workflow.Pricing{
		Milestones: []workflow.MilestoneInput{{Title: "Everything", Value: models.MustAmount("300")}},
	})

	require.NoError(t, err)
	assert.Equal(t, models.AgreementPendingClient, priced.Agreement.Status)
	require.Len(t, priced.Milestones, 1)
	assert.Equal(t, "Everything", priced.Milestones[0].Title)
	assert.Equal(t, "300", priced.Agreement.Financials.TotalValue.String())

	all, err := store.ListMilestones(ctx, id)
	require.NoError(t, err)
	require.Len(t, all, 3)
	inactive := 0
	for _, m := range all {
		if !m.IsActive {
			inactive++
		}
	}
	assert.Equal(t, 2, inactive)
}

func TestRespond(t *testing.T) {
	ctx := context.Background()

	t.Run("Decline Cancels", func(t *testing.T) {
		s, _, _ := newTestService(t)
		d, err := s.CreateAgreement(ctx, client, agreementInput("10"))
		require.NoError(t, err)
		_, err = s.SubmitAgreement(ctx, client, d.Agreement.ID)
		require.NoError(t, err)

		got, err := s.Respond(ctx, dev, d.Agreement.ID, false, workflow.Pricing{}, "fully booked")

		require.NoError(t, err)
		assert.Equal(t, models.AgreementCancelled, got.Agreement.Status)
		require.NotNil(t, got.Agreement.Cancellation)
		assert.Equal(t, "fully booked", got.Agreement.Cancellation.Reason)
	})

	t.Run("Accept Prices", func(t *testing.T) {
		s, _, _ := newTestService(t)
		d, err := s.CreateAgreement(ctx, client, agreementInput("10"))
		require.NoError(t, err)
		_, err = s.SubmitAgreement(ctx, client, d.Agreement.ID)
		require.NoError(t, err)

		got, err := s.Respond(ctx, dev, d.Agreement.ID, true, workflow.Pricing{}, "")

		require.NoError(t, err)
		assert.Equal(t, models.AgreementPendingClient, got.Agreement.Status)
	})

	t.Run("Client Cannot Respond", func(t *testing.T) {
		s, _, _ := newTestService(t)
		d, err := s.CreateAgreement(ctx, client, agreementInput("10"))
		require.NoError(t, err)
		_, err = s.SubmitAgreement(ctx, client, d.Agreement.ID)
		require.NoError(t, err)

		_, err = s.Respond(ctx, client, d.Agreement.ID, false, workflow.Pricing{}, "no")
		assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))
	})
}

func TestWalletBackfill(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestService(t)
	in := agreementInput("10")
	in.DeveloperID = ""

	d, err := s.CreateAgreement(ctx, client, in)
	require.NoError(t, err)
	assert.Empty(t, d.Agreement.DeveloperID)

	store.PutUser(&models.User{UserID: dev.UserID, WalletAddress: dev.WalletAddress})
	_, err = s.SubmitAgreement(ctx, client, d.Agreement.ID)
	require.NoError(t, err)

	walletOnly := models.Actor{WalletAddress: strings.ToUpper(dev.WalletAddress)}
	got, err := s.DeveloperAccept(ctx, walletOnly, d.Agreement.ID, workflow.Pricing{})
	require.NoError(t, err)
	assert.Equal(t, dev.UserID, got.Agreement.DeveloperID)

	t.Run("Resolved At Creation", func(t *testing.T) {
		created, err := s.CreateAgreement(ctx, client, in)
		require.NoError(t, err)
		assert.Equal(t, dev.UserID, created.Agreement.DeveloperID)
	})
}

func TestSignThenApprove(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	d, err := s.CreateAgreement(ctx, client, agreementInput("10"))
	require.NoError(t, err)
	id := d.Agreement.ID
	_, err = s.SubmitAgreement(ctx, client, id)
	require.NoError(t, err)
	_, err = s.DeveloperAccept(ctx, dev, id, workflow.Pricing{})
	require.NoError(t, err)

	got, err := s.Sign(ctx, client, id, workflow.SignatureInput{Message: "I agree"})
	require.NoError(t, err)
	assert.Equal(t, models.AgreementPendingSignatures, got.Agreement.Status)

	got, err = s.Sign(ctx, dev, id, workflow.SignatureInput{Message: "I agree"})
	require.NoError(t, err)
	assert.Equal(t, models.AgreementEscrowDeposit, got.Agreement.Status)

	_, err = s.ClientApprove(ctx, client, id, workflow.EscrowFunding{})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	got, err = s.ClientApprove(ctx, client, id, workflow.EscrowFunding{TxHash: txHash, Network: "sepolia"})
	require.NoError(t, err)
	assert.Equal(t, models.AgreementActive, got.Agreement.Status)
	assert.Equal(t, models.EscrowLocked, got.Agreement.Escrow.Status)
}

func TestCancelAndDispute(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestService(t)
	d := activeAgreement(t, s, "10")
	id := d.Agreement.ID

	_, err := s.Dispute(ctx, dev, id, "")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	got, err := s.Dispute(ctx, dev, id, "client unresponsive")
	require.NoError(t, err)
	assert.Equal(t, models.AgreementDisputed, got.Agreement.Status)

	_, err = s.Cancel(ctx, stranger, id, "nope")
	assert.True(t, apperrors.Is(err, apperrors.KindAuthorization))

	got, err = s.Cancel(ctx, client, id, "settled outside")
	require.NoError(t, err)
	assert.Equal(t, models.AgreementCancelled, got.Agreement.Status)

	_, err = s.Cancel(ctx, client, id, "again")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestStaleCommitIsConflict(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestService(t)
	d, err := s.CreateAgreement(ctx, client, agreementInput("10"))
	require.NoError(t, err)

	// A writer that read before the service committed loses.
	stale, err := store.GetAgreement(ctx, d.Agreement.ID)
	require.NoError(t, err)
	_, err = s.SubmitAgreement(ctx, client, d.Agreement.ID)
	require.NoError(t, err)

	stale.Status = models.AgreementCancelled
	err = commitChanges(ctx, store, "test", &storage.ChangeSet{Agreement: stale})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, 409, apperrors.StatusCode(err))
}
