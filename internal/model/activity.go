package model

import (
	"encoding/json"
	"fmt"
)

// SystemAccountID signs refunds and is the sender of validator rewards.
const SystemAccountID = "system"

// ActivityType tags an ActivityAction variant.
type ActivityType string

const (
	ActivityBatch            ActivityType = "batch"
	ActivityAccessKeyCreated ActivityType = "access-key-created"
	ActivityAccountCreated   ActivityType = "account-created"
	ActivityAccountRemoved   ActivityType = "account-removed"
	ActivityAccessKeyRemoved ActivityType = "access-key-removed"
	ActivityContractDeployed ActivityType = "contract-deployed"
	ActivityCallMethod       ActivityType = "call-method"
	ActivityRestake          ActivityType = "restake"
	ActivityTransfer         ActivityType = "transfer"
	ActivityRefund           ActivityType = "refund"
	ActivityValidatorReward  ActivityType = "validator-reward"
)

// ActivityAction is the user-facing description of what caused an account change.
// Only the fields belonging to Type are meaningful.
type ActivityAction struct {
	Type            ActivityType
	TransactionHash string
	BlockHash       string
	MethodName      string
	Amount          string
	Actions         []ActivityAction
}

// MarshalJSON emits exactly the fields of the action variant.
func (a ActivityAction) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case ActivityBatch:
		actions := a.Actions
		if actions == nil {
			actions = []ActivityAction{}
		}
		return json.Marshal(struct {
			Type            ActivityType     `json:"type"`
			TransactionHash string           `json:"transactionHash"`
			Actions         []ActivityAction `json:"actions"`
		}{a.Type, a.TransactionHash, actions})
	case ActivityAccessKeyCreated, ActivityAccountCreated, ActivityAccountRemoved,
		ActivityAccessKeyRemoved, ActivityContractDeployed, ActivityRestake:
		return json.Marshal(struct {
			Type            ActivityType `json:"type"`
			TransactionHash string       `json:"transactionHash"`
		}{a.Type, a.TransactionHash})
	case ActivityCallMethod:
		return json.Marshal(struct {
			Type            ActivityType `json:"type"`
			TransactionHash string       `json:"transactionHash"`
			MethodName      string       `json:"methodName"`
		}{a.Type, a.TransactionHash, a.MethodName})
	case ActivityTransfer, ActivityRefund:
		return json.Marshal(struct {
			Type            ActivityType `json:"type"`
			TransactionHash string       `json:"transactionHash"`
			Amount          string       `json:"amount"`
		}{a.Type, a.TransactionHash, a.Amount})
	case ActivityValidatorReward:
		return json.Marshal(struct {
			Type      ActivityType `json:"type"`
			BlockHash string       `json:"blockHash"`
			Amount    string       `json:"amount"`
		}{a.Type, a.BlockHash, a.Amount})
	default:
		return nil, fmt.Errorf("unknown activity type: %q", a.Type)
	}
}

// UnmarshalJSON decodes any ActivityAction variant.
func (a *ActivityAction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type            ActivityType     `json:"type"`
		TransactionHash string           `json:"transactionHash"`
		BlockHash       string           `json:"blockHash"`
		MethodName      string           `json:"methodName"`
		Amount          string           `json:"amount"`
		Actions         []ActivityAction `json:"actions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = ActivityAction(raw)
	return nil
}

// ActivityElement is one entry of an account activity feed.
type ActivityElement struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Timestamp uint64         `json:"timestamp"`
	Action    ActivityAction `json:"action"`
}

// ActivityPage is one page of an account activity feed.
// NextCursor is nil when there are no older rows.
type ActivityPage struct {
	Elements   []ActivityElement `json:"elements"`
	NextCursor *uint64           `json:"nextCursor,omitempty"`
}

// MarshalJSON keeps elements an array when the page is empty.
func (p ActivityPage) MarshalJSON() ([]byte, error) {
	type Alias ActivityPage
	alias := Alias(p)
	if alias.Elements == nil {
		alias.Elements = []ActivityElement{}
	}
	return json.Marshal(alias)
}
