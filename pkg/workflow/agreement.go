package workflow

import (
	"slices"
	"strings"
	"time"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// DefaultCurrency is used when an agreement is created without one.
const DefaultCurrency = "ETH"

var agreementTransitions = map[models.AgreementStatus][]models.AgreementStatus{
	models.AgreementDraft:                 {models.AgreementPendingDeveloper, models.AgreementCancelled},
	models.AgreementPendingDeveloper:      {models.AgreementPendingClient, models.AgreementCancelled},
	models.AgreementPendingClient:         {models.AgreementPendingSignatures, models.AgreementActive, models.AgreementCancelled},
	models.AgreementPendingSignatures:     {models.AgreementEscrowDeposit, models.AgreementActive, models.AgreementCancelled},
	models.AgreementEscrowDeposit:         {models.AgreementActive, models.AgreementCancelled},
	models.AgreementActive:                {models.AgreementInProgress, models.AgreementAwaitingFinalApproval, models.AgreementCompleted, models.AgreementCancelled, models.AgreementDisputed},
	models.AgreementInProgress:            {models.AgreementAwaitingFinalApproval, models.AgreementCompleted, models.AgreementCancelled, models.AgreementDisputed},
	models.AgreementAwaitingFinalApproval: {models.AgreementCompleted, models.AgreementCancelled, models.AgreementDisputed},
	models.AgreementDisputed:              {models.AgreementCancelled},
	models.AgreementCompleted:             {},
	models.AgreementCancelled:             {},
}

// CanTransitionAgreement reports whether the status graph has the edge from -> to.
func CanTransitionAgreement(from, to models.AgreementStatus) bool {
	return slices.Contains(agreementTransitions[from], to)
}

func transitionAgreement(a *models.Agreement, to models.AgreementStatus, by models.Party, now time.Time, note string) error {
	if !CanTransitionAgreement(a.Status, to) {
		return apperrors.Validation("agreement cannot move from %s to %s", a.Status, to)
	}
	a.History = append(a.History, models.StatusChange{From: a.Status, To: to, By: by, At: now, Note: note})
	a.Status = to
	a.UpdatedAt = now
	return nil
}

// NewAgreementID returns a short human-readable agreement identifier.
func NewAgreementID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "AGR-" + strings.ToUpper(raw[:12])
}

// MilestoneInput describes one milestone as priced by a party.
type MilestoneInput struct {
	Title        string
	Description  string
	Deliverables []string
	Value        models.Amount
	DueDate      *time.Time
}

// AgreementInput is everything a client supplies when creating an agreement.
type AgreementInput struct {
	Title           string
	Description     string
	ClientWallet    string
	DeveloperID     string
	DeveloperWallet string
	TotalValue      *models.Amount
	Currency        string
	StartDate       *time.Time
	EndDate         *time.Time
	Milestones      []MilestoneInput
}

// NewAgreement creates a draft agreement owned by the calling client. When
// milestones are supplied the agreement is pre-priced.
func NewAgreement(actor models.Actor, in AgreementInput, now time.Time) (*models.Agreement, []*models.Milestone, error) {
	if actor.IsZero() {
		return nil, nil, apperrors.Authorization("caller identity is required")
	}
	var fields []apperrors.FieldError
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, apperrors.FieldError{Field: "title", Message: "title is required"})
	}
	if in.DeveloperID == "" && in.DeveloperWallet == "" {
		fields = append(fields, apperrors.FieldError{Field: "developer", Message: "developer id or wallet address is required"})
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		fields = append(fields, apperrors.FieldError{Field: "endDate", Message: "end date must not precede start date"})
	}
	if len(fields) > 0 {
		return nil, nil, apperrors.InvalidFields("invalid agreement", fields)
	}

	clientWallet := in.ClientWallet
	if clientWallet == "" {
		clientWallet = actor.WalletAddress
	}
	if (actor.UserID != "" && actor.UserID == in.DeveloperID) || sameWallet(clientWallet, in.DeveloperWallet) {
		return nil, nil, apperrors.Validation("client and developer must be different users")
	}

	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	a := &models.Agreement{
		ID:              NewAgreementID(),
		ClientID:        actor.UserID,
		ClientWallet:    clientWallet,
		DeveloperID:     in.DeveloperID,
		DeveloperWallet: in.DeveloperWallet,
		Project: models.Project{
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
		},
		Financials:    models.Financials{Currency: currency},
		Escrow:        models.Escrow{Status: models.EscrowPending},
		MilestoneIDs:  []string{},
		Status:        models.AgreementDraft,
		Modifications: []models.Modification{},
		History:       []models.StatusChange{{To: models.AgreementDraft, By: models.PartyClient, At: now}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var milestones []*models.Milestone
	if err := price(a, nil, in.TotalValue, currency, in.Milestones, now, func(ms []*models.Milestone) { milestones = ms }); err != nil {
		return nil, nil, err
	}
	return a, milestones, nil
}

// price reconciles milestone values against the contract total and replaces
// the agreement's milestone set when new milestones are given.
func price(a *models.Agreement, existing []*models.Milestone, total *models.Amount, currency string, inputs []MilestoneInput, now time.Time, created func([]*models.Milestone)) error {
	if currency != "" {
		a.Financials.Currency = currency
	}

	if len(inputs) == 0 {
		sum, n := activeSum(existing)
		switch {
		case n > 0 && total != nil && !total.Equal(sum):
			return apperrors.InvalidFields("milestones do not reconcile", []apperrors.FieldError{
				{Field: "totalValue", Message: "total value must equal the sum of milestone values " + sum.String()},
			})
		case n > 0:
			a.Financials.TotalValue = sum
		case total != nil:
			if total.IsNegative() {
				return apperrors.InvalidFields("invalid total value", []apperrors.FieldError{{Field: "totalValue", Message: "must not be negative"}})
			}
			a.Financials.TotalValue = *total
		}
		recomputeRemaining(a)
		applyAgreementFee(a)
		return nil
	}

	var fields []apperrors.FieldError
	sum := models.Zero
	for i, in := range inputs {
		if strings.TrimSpace(in.Title) == "" {
			fields = append(fields, apperrors.FieldError{Field: fieldName("milestones", i, "title"), Message: "title is required"})
		}
		if !in.Value.IsPositive() {
			fields = append(fields, apperrors.FieldError{Field: fieldName("milestones", i, "value"), Message: "value must be positive"})
		}
		sum = sum.Add(in.Value)
	}
	if total != nil && !total.Equal(sum) {
		fields = append(fields, apperrors.FieldError{Field: "totalValue", Message: "total value must equal the sum of milestone values " + sum.String()})
	}
	if len(fields) > 0 {
		return apperrors.InvalidFields("invalid milestones", fields)
	}

	for _, m := range existing {
		if m.IsActive {
			m.IsActive = false
			m.UpdatedAt = now
		}
	}

	milestones := make([]*models.Milestone, len(inputs))
	ids := make([]string, len(inputs))
	for i, in := range inputs {
		milestones[i] = &models.Milestone{
			ID:              uuid.NewString(),
			AgreementID:     a.ID,
			MilestoneNumber: i + 1,
			Title:           strings.TrimSpace(in.Title),
			Description:     in.Description,
			Deliverables:    in.Deliverables,
			Financials:      models.MilestoneFinancials{Value: in.Value, Currency: a.Financials.Currency},
			Timeline:        models.MilestoneTimeline{DueDate: in.DueDate},
			Status:          models.MilestonePending,
			Revisions:       []models.Revision{},
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		ids[i] = milestones[i].ID
	}

	a.MilestoneIDs = ids
	a.Financials.TotalValue = sum
	recomputeRemaining(a)
	applyAgreementFee(a)
	RecomputeMilestoneStats(a, milestones)
	created(milestones)
	return nil
}

func activeSum(ms []*models.Milestone) (models.Amount, int) {
	sum, n := models.Zero, 0
	for _, m := range ms {
		if m.IsActive {
			sum = sum.Add(m.Financials.Value)
			n++
		}
	}
	return sum, n
}

// SubmitToDeveloper sends a draft to the developer for pricing.
func SubmitToDeveloper(a *models.Agreement, p models.Party, now time.Time) error {
	if err := requireParty(p, models.PartyClient, "submit the agreement"); err != nil {
		return err
	}
	return transitionAgreement(a, models.AgreementPendingDeveloper, p, now, "")
}

// Pricing is the developer's answer to a submitted agreement.
type Pricing struct {
	TotalValue *models.Amount
	Currency   string
	Milestones []MilestoneInput
}

// DeveloperAccept prices the agreement. Supplied milestones replace the
// current set; the replaced milestones are soft-deleted in place.
func DeveloperAccept(a *models.Agreement, existing []*models.Milestone, p models.Party, in Pricing, now time.Time) ([]*models.Milestone, error) {
	if err := requireParty(p, models.PartyDeveloper, "price the agreement"); err != nil {
		return nil, err
	}
	if !CanTransitionAgreement(a.Status, models.AgreementPendingClient) {
		return nil, apperrors.Validation("agreement cannot move from %s to %s", a.Status, models.AgreementPendingClient)
	}

	var created []*models.Milestone
	if err := price(a, existing, in.TotalValue, in.Currency, in.Milestones, now, func(ms []*models.Milestone) { created = ms }); err != nil {
		return nil, err
	}
	if !a.Financials.TotalValue.IsPositive() {
		return nil, apperrors.InvalidFields("agreement is not priced", []apperrors.FieldError{
			{Field: "totalValue", Message: "a positive total value or milestones are required"},
		})
	}
	if created == nil {
		RecomputeMilestoneStats(a, existing)
	}
	return created, transitionAgreement(a, models.AgreementPendingClient, p, now, "priced by developer")
}

// Decline is the developer turning the agreement down.
func Decline(a *models.Agreement, p models.Party, reason string, now time.Time) error {
	if err := requireParty(p, models.PartyDeveloper, "decline the agreement"); err != nil {
		return err
	}
	if a.Status != models.AgreementPendingDeveloper {
		return apperrors.Validation("agreement in status %s is not awaiting the developer", a.Status)
	}
	return Cancel(a, p, reason, now)
}

// EscrowFunding is the on-chain evidence a client supplies when approving.
type EscrowFunding struct {
	TxHash          string
	BlockNumber     uint64
	Network         string
	ContractAddress string
	IPFSHashes      []string
}

// ClientApprove activates the agreement. The supplied transaction hash is
// taken as proof of funding and recorded with a completed escrow deposit.
func ClientApprove(a *models.Agreement, p models.Party, in EscrowFunding, now time.Time) (*models.Transaction, error) {
	if err := requireParty(p, models.PartyClient, "approve the agreement"); err != nil {
		return nil, err
	}
	switch a.Status {
	case models.AgreementPendingClient, models.AgreementPendingSignatures, models.AgreementEscrowDeposit:
	default:
		return nil, apperrors.Validation("agreement in status %s cannot be approved", a.Status)
	}
	if !ValidTxHash(in.TxHash) {
		return nil, apperrors.InvalidFields("blockchain transaction hash is required", []apperrors.FieldError{
			{Field: "blockchainTxHash", Message: "must be a 0x-prefixed 32-byte hex hash"},
		})
	}
	if a.Blockchain.TxHash != "" && !strings.EqualFold(a.Blockchain.TxHash, in.TxHash) {
		return nil, apperrors.Validation("agreement already records blockchain transaction %s", a.Blockchain.TxHash)
	}
	if !a.Financials.TotalValue.IsPositive() {
		return nil, apperrors.Validation("agreement has no total value")
	}

	a.Blockchain = models.BlockchainRecord{
		TxHash:          in.TxHash,
		BlockNumber:     in.BlockNumber,
		IPFSHashes:      in.IPFSHashes,
		Network:         in.Network,
		ContractAddress: in.ContractAddress,
		RecordedAt:      &now,
	}
	if a.Financials.PlatformFee.Amount.IsZero() {
		applyAgreementFee(a)
	}
	FundEscrow(a, now)

	tx := &models.Transaction{
		ID:          uuid.NewString(),
		Type:        models.TxEscrowDeposit,
		AgreementID: a.ID,
		From:        counterparty(a, models.PartyClient),
		To:          models.Counterparty{WalletAddress: in.ContractAddress},
		Amount:      models.Money{Value: a.Financials.TotalValue, Currency: a.Financials.Currency},
		Fees:        models.Fees{Platform: a.Financials.PlatformFee.Amount},
		Status:      models.TxCompleted,
		Blockchain:  &models.ChainProof{TxHash: in.TxHash, BlockNumber: in.BlockNumber, Network: in.Network},
		Description: "Escrow deposit for " + a.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		CompletedAt: &now,
	}

	a.ActivatedAt = &now
	if err := transitionAgreement(a, models.AgreementActive, p, now, "escrow funded"); err != nil {
		return nil, err
	}
	return tx, nil
}

// ValidTxHash reports whether h is a 0x-prefixed 32-byte hex string.
func ValidTxHash(h string) bool {
	b, err := hexutil.Decode(h)
	return err == nil && len(b) == 32
}

// SignatureInput is an off-chain signature. It is recorded, not verified.
type SignatureInput struct {
	WalletAddress string
	Message       string
	Hash          string
}

var signableStatuses = []models.AgreementStatus{
	models.AgreementPendingClient,
	models.AgreementPendingSignatures,
	models.AgreementEscrowDeposit,
	models.AgreementActive,
	models.AgreementInProgress,
}

// Sign records a party's signature. The first signature on a priced
// agreement opens signature collection and the second moves it to escrow
// deposit.
func Sign(a *models.Agreement, p models.Party, in SignatureInput, now time.Time) error {
	if err := requireEitherParty(p, "sign the agreement"); err != nil {
		return err
	}
	if !slices.Contains(signableStatuses, a.Status) {
		return apperrors.Validation("agreement in status %s cannot be signed", a.Status)
	}

	sig := &a.Signatures.Client
	partyWallet := a.ClientWallet
	if p == models.PartyDeveloper {
		sig = &a.Signatures.Developer
		partyWallet = a.DeveloperWallet
	}
	if sig.Signed {
		return apperrors.Validation("%s has already signed", p)
	}
	wallet := in.WalletAddress
	if wallet == "" {
		wallet = partyWallet
	}
	if partyWallet != "" && !sameWallet(partyWallet, wallet) {
		return apperrors.Validation("signing wallet does not match the %s wallet", p)
	}

	*sig = models.Signature{Signed: true, SignedAt: &now, WalletAddress: wallet, Message: in.Message, Hash: in.Hash}
	a.UpdatedAt = now

	if a.Status == models.AgreementPendingClient {
		if err := transitionAgreement(a, models.AgreementPendingSignatures, p, now, "signature collection started"); err != nil {
			return err
		}
	}
	if a.Status == models.AgreementPendingSignatures && a.Signatures.Client.Signed && a.Signatures.Developer.Signed {
		return transitionAgreement(a, models.AgreementEscrowDeposit, p, now, "fully signed")
	}
	return nil
}

// Complete closes the agreement once every active milestone is approved or
// paid, and returns the lifetime statistics to credit to both parties.
func Complete(a *models.Agreement, milestones []*models.Milestone, p models.Party, now time.Time) ([]models.UserStatsDelta, error) {
	if err := requireParty(p, models.PartyClient, "complete the agreement"); err != nil {
		return nil, err
	}
	if !CanTransitionAgreement(a.Status, models.AgreementCompleted) {
		return nil, apperrors.Validation("agreement in status %s cannot be completed", a.Status)
	}
	for _, m := range milestones {
		if m.IsActive && !m.Status.IsAccepted() {
			return nil, apperrors.Validation("milestone %d is %s, every milestone must be approved", m.MilestoneNumber, m.Status)
		}
	}

	RecomputeMilestoneStats(a, milestones)
	a.Project.ActualEndDate = &now
	a.CompletedAt = &now
	if a.Escrow.Status != models.EscrowPending {
		a.Escrow.Status = models.EscrowCompleted
		if a.Escrow.ReleasedAt == nil {
			a.Escrow.ReleasedAt = &now
		}
	}
	if err := transitionAgreement(a, models.AgreementCompleted, p, now, ""); err != nil {
		return nil, err
	}

	// Parties are credited with what actually left escrow.
	value := a.Financials.ReleasedAmount
	var deltas []models.UserStatsDelta
	if a.ClientID != "" {
		deltas = append(deltas, models.UserStatsDelta{UserID: a.ClientID, CompletedProjects: 1, Spent: value})
	}
	if a.DeveloperID != "" {
		deltas = append(deltas, models.UserStatsDelta{UserID: a.DeveloperID, CompletedProjects: 1, Earned: value})
	}
	return deltas, nil
}

// Cancel ends the agreement from any non-terminal status.
func Cancel(a *models.Agreement, p models.Party, reason string, now time.Time) error {
	if err := requireEitherParty(p, "cancel the agreement"); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.InvalidFields("cancellation reason is required", []apperrors.FieldError{{Field: "reason", Message: "reason is required"}})
	}
	if a.Status.IsTerminal() {
		return apperrors.Validation("agreement is already %s", a.Status)
	}
	if err := transitionAgreement(a, models.AgreementCancelled, p, now, reason); err != nil {
		return err
	}
	a.Cancellation = &models.Closure{By: p, UserID: userOf(a, p), Reason: reason, At: now}
	return nil
}

// RaiseDispute freezes a running agreement until it is cancelled.
func RaiseDispute(a *models.Agreement, p models.Party, reason string, now time.Time) error {
	if err := requireEitherParty(p, "dispute the agreement"); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.InvalidFields("dispute reason is required", []apperrors.FieldError{{Field: "reason", Message: "reason is required"}})
	}
	if err := transitionAgreement(a, models.AgreementDisputed, p, now, reason); err != nil {
		return err
	}
	a.Dispute = &models.Closure{By: p, UserID: userOf(a, p), Reason: reason, At: now}
	return nil
}

func userOf(a *models.Agreement, p models.Party) string {
	return counterparty(a, p).UserID
}

// RecomputeMilestoneStats refreshes the derived milestone counters.
func RecomputeMilestoneStats(a *models.Agreement, milestones []*models.Milestone) {
	var s models.MilestoneStats
	for _, m := range milestones {
		if !m.IsActive {
			continue
		}
		s.Total++
		switch m.Status {
		case models.MilestonePaid, models.MilestoneCompleted:
			s.Completed++
		}
		switch {
		case m.Status.IsAccepted():
			s.Approved++
		case m.Status != models.MilestoneRejected:
			s.Pending++
		}
	}
	a.MilestoneStats = s
}
