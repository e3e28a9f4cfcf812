package mapping

import (
	"time"

	"github.com/chris/gig-agreements/pkg/api"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/service"
	"github.com/chris/gig-agreements/pkg/uploads"
	"github.com/chris/gig-agreements/pkg/workflow"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toTime(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time.UTC()
	return &t
}

// ToDomainMilestones converts API milestone inputs to workflow inputs.
func ToDomainMilestones(in []api.NewMilestone) []workflow.MilestoneInput {
	if len(in) == 0 {
		return nil
	}
	out := make([]workflow.MilestoneInput, len(in))
	for i, m := range in {
		out[i] = workflow.MilestoneInput{
			Title:        m.Title,
			Description:  m.Description,
			Deliverables: m.Deliverables,
			Value:        m.Value,
			DueDate:      toTime(m.DueDate),
		}
	}
	return out
}

// ToDomainNewAgreement converts an API NewAgreement to the workflow input.
func ToDomainNewAgreement(in *api.NewAgreement) workflow.AgreementInput {
	return workflow.AgreementInput{
		Title:           in.Title,
		Description:     in.Description,
		ClientWallet:    in.ClientWallet,
		DeveloperID:     in.DeveloperId,
		DeveloperWallet: in.DeveloperWallet,
		TotalValue:      in.TotalValue,
		Currency:        in.Currency,
		StartDate:       toTime(in.StartDate),
		EndDate:         toTime(in.EndDate),
		Milestones:      ToDomainMilestones(in.Milestones),
	}
}

func ToDomainPricing(in api.Pricing) workflow.Pricing {
	return workflow.Pricing{
		TotalValue: in.TotalValue,
		Currency:   in.Currency,
		Milestones: ToDomainMilestones(in.Milestones),
	}
}

func ToDomainEscrowFunding(in *api.ClientApproveRequest) workflow.EscrowFunding {
	return workflow.EscrowFunding{
		TxHash:          in.TxHash,
		BlockNumber:     in.BlockNumber,
		Network:         in.Network,
		ContractAddress: in.ContractAddress,
		IPFSHashes:      in.IpfsHashes,
	}
}

func ToDomainSignature(in *api.SignRequest) workflow.SignatureInput {
	return workflow.SignatureInput{
		WalletAddress: in.WalletAddress,
		Message:       in.Message,
		Hash:          in.Hash,
	}
}

func ToDomainModification(in *api.NewModification) workflow.ModificationRequest {
	return workflow.ModificationRequest{
		Type:          in.Type,
		Description:   in.Description,
		PreviousValue: in.PreviousValue,
		NewValue:      in.NewValue,
	}
}

// ToDomainSubmission combines linked evidence with files uploaded in the
// same request.
func ToDomainSubmission(in *api.SubmitMilestoneRequest, files []uploads.File) service.SubmitInput {
	out := service.SubmitInput{Notes: in.Notes, Uploads: files}
	for _, f := range in.Files {
		out.Files = append(out.Files, models.EvidenceFile{Name: f.Name, URL: f.Url})
	}
	return out
}

func ToDomainApproval(in *api.ApproveMilestoneRequest) workflow.Approval {
	return workflow.Approval{Rating: in.Rating, Feedback: in.Feedback}
}

// ToDomainChainProof converts an API BlockchainProof to the stored proof.
func ToDomainChainProof(in *api.BlockchainProof) models.ChainProof {
	return models.ChainProof{
		TxHash:        in.TxHash,
		BlockNumber:   in.BlockNumber,
		Network:       in.Network,
		Confirmations: in.Confirmations,
		GasUsed:       in.GasUsed,
	}
}

// ToDomainNewTransaction converts an API NewTransaction to the workflow request.
func ToDomainNewTransaction(in *api.NewTransaction) workflow.TransactionRequest {
	req := workflow.TransactionRequest{
		Type:        in.Type,
		Amount:      in.Amount,
		Currency:    in.Currency,
		USDValue:    in.UsdValue,
		Description: in.Description,
	}
	if in.NetworkFee != nil {
		req.NetworkFee = *in.NetworkFee
	}
	if in.Blockchain != nil {
		proof := ToDomainChainProof(in.Blockchain)
		req.Proof = &proof
	}
	return req
}

func ToDomainStatusUpdate(in *api.TransactionStatusUpdate) service.StatusUpdate {
	return service.StatusUpdate{
		Status:  in.Status,
		Code:    in.Code,
		Message: in.Message,
		TxHash:  in.TxHash,
		Network: in.Network,
	}
}

// ToApiAgreement converts service agreement details to the API model.
func ToApiAgreement(d *service.AgreementDetails) *api.Agreement {
	milestones := d.Milestones
	if milestones == nil {
		milestones = []*models.Milestone{}
	}
	return &api.Agreement{Agreement: d.Agreement, Milestones: milestones, Role: d.Party}
}

// ToApiMilestone converts service milestone details to the API model.
func ToApiMilestone(d *service.MilestoneDetails) *api.Milestone {
	return &api.Milestone{Milestone: d.Milestone, Agreement: d.Agreement, Transaction: d.Transaction}
}

// ToApiVerification converts a verification outcome to the API model.
func ToApiVerification(v *service.Verification) *api.Verification {
	out := &api.Verification{Verified: v.Verified, Reason: v.Reason, Transaction: v.Transaction}
	if r := v.Receipt; r != nil {
		out.Receipt = &api.Receipt{
			TxHash:        r.TxHash,
			Network:       r.Network,
			BlockNumber:   r.BlockNumber,
			Success:       r.Success,
			Confirmations: r.Confirmations,
			GasUsed:       r.GasUsed,
			To:            r.To,
			Value:         r.Value,
		}
	}
	return out
}

// ToApiPagination describes one page of a listing.
func ToApiPagination(page, limit, total int) *api.Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &api.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
