package model

import "fmt"

// ActionKind is the closed set of ledger action kinds.
type ActionKind string

const (
	ActionAddKey         ActionKind = "ADD_KEY"
	ActionCreateAccount  ActionKind = "CREATE_ACCOUNT"
	ActionDeleteAccount  ActionKind = "DELETE_ACCOUNT"
	ActionDeleteKey      ActionKind = "DELETE_KEY"
	ActionDeployContract ActionKind = "DEPLOY_CONTRACT"
	ActionFunctionCall   ActionKind = "FUNCTION_CALL"
	ActionStake          ActionKind = "STAKE"
	ActionTransfer       ActionKind = "TRANSFER"
)

// ParseActionKind converts a stored action_kind value into an ActionKind.
func ParseActionKind(value string) (ActionKind, error) {
	switch kind := ActionKind(value); kind {
	case ActionAddKey,
		ActionCreateAccount,
		ActionDeleteAccount,
		ActionDeleteKey,
		ActionDeployContract,
		ActionFunctionCall,
		ActionStake,
		ActionTransfer:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown action kind: %q", value)
	}
}

// Action is a single operation of a receipt or transaction.
// MethodName is set for FunctionCall, Deposit for Transfer.
type Action struct {
	Kind       ActionKind `json:"kind"`
	MethodName string     `json:"method_name,omitempty"`
	Deposit    string     `json:"deposit,omitempty"`
}

// Receipt is an executed unit of work with its ordered actions.
type Receipt struct {
	ReceiptID                     string   `json:"receipt_id"`
	SignerID                      string   `json:"signer_id"`
	ReceiverID                    string   `json:"receiver_id"`
	BlockTimestamp                uint64   `json:"block_timestamp"`
	OriginatedFromTransactionHash string   `json:"originated_from_transaction_hash"`
	Actions                       []Action `json:"actions"`
}

// Transaction is a signed request with its ordered actions.
type Transaction struct {
	Hash           string   `json:"hash"`
	SignerID       string   `json:"signer_id"`
	ReceiverID     string   `json:"receiver_id"`
	BlockTimestamp uint64   `json:"block_timestamp"`
	Actions        []Action `json:"actions"`
}
