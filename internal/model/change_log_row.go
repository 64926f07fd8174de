package model

import "fmt"

// UpdateReason names why an account state row was written by the indexer.
type UpdateReason string

const (
	ReasonActionReceiptGasReward  UpdateReason = "ACTION_RECEIPT_GAS_REWARD"
	ReasonReceiptProcessing       UpdateReason = "RECEIPT_PROCESSING"
	ReasonTransactionProcessing   UpdateReason = "TRANSACTION_PROCESSING"
	ReasonMigration               UpdateReason = "MIGRATION"
	ReasonValidatorAccountsUpdate UpdateReason = "VALIDATOR_ACCOUNTS_UPDATE"
)

// ParseUpdateReason converts a stored enum value into an UpdateReason.
func ParseUpdateReason(value string) (UpdateReason, error) {
	switch reason := UpdateReason(value); reason {
	case ReasonActionReceiptGasReward,
		ReasonReceiptProcessing,
		ReasonTransactionProcessing,
		ReasonMigration,
		ReasonValidatorAccountsUpdate:
		return reason, nil
	default:
		return "", fmt.Errorf("unknown update reason: %q", value)
	}
}

// CausedByReceipt reports whether rows with this reason reference a receipt.
func (r UpdateReason) CausedByReceipt() bool {
	return r == ReasonActionReceiptGasReward || r == ReasonReceiptProcessing
}

// ChangeLogRow is one state mutation of an account as stored in account_changes.
type ChangeLogRow struct {
	AffectedAccountID            string       `json:"affected_account_id"`
	ChangedInBlockTimestamp      uint64       `json:"changed_in_block_timestamp"`
	ChangedInBlockHash           string       `json:"changed_in_block_hash"`
	UpdateReason                 UpdateReason `json:"update_reason"`
	CausedByReceiptID            string       `json:"caused_by_receipt_id,omitempty"`
	CausedByTransactionHash      string       `json:"caused_by_transaction_hash,omitempty"`
	AffectedAccountStakedBalance string       `json:"affected_account_staked_balance,omitempty"`
}

// HasStakedBalance reports whether the row carries a staked balance snapshot.
func (r ChangeLogRow) HasStakedBalance() bool {
	return r.AffectedAccountStakedBalance != ""
}

// Validate checks that exactly the cause fields implied by UpdateReason are set.
func (r ChangeLogRow) Validate() error {
	switch r.UpdateReason {
	case ReasonActionReceiptGasReward, ReasonReceiptProcessing:
		if r.CausedByReceiptID == "" {
			return fmt.Errorf("%s row at %d has no receipt id", r.UpdateReason, r.ChangedInBlockTimestamp)
		}
		if r.CausedByTransactionHash != "" {
			return fmt.Errorf("%s row at %d also references transaction %s", r.UpdateReason, r.ChangedInBlockTimestamp, r.CausedByTransactionHash)
		}
	case ReasonTransactionProcessing:
		if r.CausedByTransactionHash == "" {
			return fmt.Errorf("%s row at %d has no transaction hash", r.UpdateReason, r.ChangedInBlockTimestamp)
		}
		if r.CausedByReceiptID != "" {
			return fmt.Errorf("%s row at %d also references receipt %s", r.UpdateReason, r.ChangedInBlockTimestamp, r.CausedByReceiptID)
		}
	case ReasonMigration, ReasonValidatorAccountsUpdate:
		if r.CausedByReceiptID != "" || r.CausedByTransactionHash != "" {
			return fmt.Errorf("%s row at %d references a cause", r.UpdateReason, r.ChangedInBlockTimestamp)
		}
		if r.UpdateReason == ReasonValidatorAccountsUpdate {
			if r.AffectedAccountID == "" {
				return fmt.Errorf("%s row at %d has no affected account", r.UpdateReason, r.ChangedInBlockTimestamp)
			}
			if !r.HasStakedBalance() {
				return fmt.Errorf("%s row at %d has no staked balance", r.UpdateReason, r.ChangedInBlockTimestamp)
			}
		}
	default:
		return fmt.Errorf("unknown update reason: %q", r.UpdateReason)
	}
	return nil
}
