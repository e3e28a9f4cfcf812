package mapping

import (
	"testing"
	"time"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/blockchain"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/uploads"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainNewAgreement(t *testing.T) {
	due := openapi_types.Date{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	total := models.MustAmount("1500")

	in := ToDomainNewAgreement(&api.NewAgreement{
		Title:           "Checkout rewrite",
		DeveloperWallet: "0xde7e100000000000000000000000000000000de7",
		TotalValue:      &total,
		StartDate:       &openapi_types.Date{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		Milestones: []api.NewMilestone{
			{Title: "Design", Value: models.MustAmount("500"), DueDate: &due},
			{Title: "Build", Value: models.MustAmount("1000")},
		},
	})

	assert.Equal(t, "Checkout rewrite", in.Title)
	assert.Equal(t, "1500", in.TotalValue.String())
	require.NotNil(t, in.StartDate)
	assert.Nil(t, in.EndDate)
	require.Len(t, in.Milestones, 2)
	assert.Equal(t, due.Time, *in.Milestones[0].DueDate)
	assert.Nil(t, in.Milestones[1].DueDate)
}

func TestToDomainNewTransaction(t *testing.T) {
	fee := models.MustAmount("0.002")
	req := ToDomainNewTransaction(&api.NewTransaction{
		AgreementId: "agr-1",
		Type:        models.TxBonus,
		Amount:      models.MustAmount("50"),
		NetworkFee:  &fee,
		Blockchain:  &api.BlockchainProof{TxHash: "0xabc", Network: "sepolia"},
	})

	assert.Equal(t, models.TxBonus, req.Type)
	assert.Equal(t, "0.002", req.NetworkFee.String())
	require.NotNil(t, req.Proof)
	assert.Equal(t, "sepolia", req.Proof.Network)

	bare := ToDomainNewTransaction(&api.NewTransaction{Type: models.TxRefund, Amount: models.MustAmount("1")})
	assert.Nil(t, bare.Proof)
	assert.True(t, bare.NetworkFee.IsZero())
}

func TestToDomainSubmission(t *testing.T) {
	files := []uploads.File{{Name: "build.zip", Body: []byte("PK")}}
	in := ToDomainSubmission(&api.SubmitMilestoneRequest{
		Notes: "done",
		Files: []api.EvidenceLink{{Name: "demo", Url: "https://demo.example.com"}},
	}, files)

	assert.Equal(t, "done", in.Notes)
	assert.Equal(t, []models.EvidenceFile{{Name: "demo", URL: "https://demo.example.com"}}, in.Files)
	assert.Equal(t, files, in.Uploads)
}

func TestToApiAgreement(t *testing.T) {
	out := ToApiAgreement(&service.AgreementDetails{Agreement: &models.Agreement{ID: "agr-1"}, Party: models.PartyClient})

	assert.Equal(t, "agr-1", out.Agreement.ID)
	assert.NotNil(t, out.Milestones)
	assert.Equal(t, models.PartyClient, out.Role)
}

func TestToApiVerification(t *testing.T) {
	out := ToApiVerification(&service.Verification{
		Verified:    true,
		Transaction: &models.Transaction{ID: "tx-1"},
		Receipt:     &blockchain.Receipt{TxHash: "0xabc", Success: true, Confirmations: 4, Value: models.MustAmount("1.5")},
	})

	require.NotNil(t, out.Receipt)
	assert.Equal(t, uint64(4), out.Receipt.Confirmations)
	assert.Equal(t, "1.5", out.Receipt.Value.String())

	assert.Nil(t, ToApiVerification(&service.Verification{Reason: "not found"}).Receipt)
}

func TestToApiPagination(t *testing.T) {
	assert.Equal(t, &api.Pagination{Page: 2, Limit: 10, Total: 21, Pages: 3}, ToApiPagination(2, 10, 21))
	assert.Equal(t, 0, ToApiPagination(1, 0, 5).Pages)
}
