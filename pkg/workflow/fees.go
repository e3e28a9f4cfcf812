package workflow

import (
	"github.com/chris/gig-agreements/pkg/models"
	"github.com/shopspring/decimal"
)

// PlatformFeeBps is the marketplace fee in basis points (2.5%).
const PlatformFeeBps int64 = 250

// FeeBps returns the fee rate applied to a transaction type.
func FeeBps(t models.TransactionType) int64 {
	switch t {
	case models.TxRefund, models.TxPlatformFee:
		return 0
	default:
		return PlatformFeeBps
	}
}

// PlatformFee is the single place the marketplace fee is computed.
func PlatformFee(amount models.Amount, t models.TransactionType) models.Amount {
	return amount.MulBps(FeeBps(t))
}

// FeePercentage renders a basis-point rate as a percentage, 250 -> 2.5.
func FeePercentage(bps int64) models.Amount {
	return models.AmountFromDecimal(decimal.New(bps, -2))
}

// applyAgreementFee sets the contract-level fee from the current total value.
func applyAgreementFee(a *models.Agreement) {
	a.Financials.PlatformFee = models.PlatformFee{
		Percentage: FeePercentage(FeeBps(models.TxEscrowDeposit)),
		Amount:     PlatformFee(a.Financials.TotalValue, models.TxEscrowDeposit),
	}
}
