package activity

import "nearActivity/internal/model"

// ClassifyActions maps the actions of one receipt or transaction to an activity.
// A single action yields a leaf; several yield a batch of per-action leaves.
// isRefund only changes how transfers are reported.
func ClassifyActions(actions []model.Action, transactionHash string, isRefund bool) (model.ActivityAction, error) {
	if len(actions) == 0 {
		return model.ActivityAction{}, inconsistent("zero actions for transaction %s", transactionHash)
	}

	if len(actions) > 1 {
		children := make([]model.ActivityAction, 0, len(actions))
		for _, action := range actions {
			child, err := ClassifyActions([]model.Action{action}, transactionHash, isRefund)
			if err != nil {
				return model.ActivityAction{}, err
			}
			children = append(children, child)
		}
		return model.ActivityAction{
			Type:            model.ActivityBatch,
			TransactionHash: transactionHash,
			Actions:         children,
		}, nil
	}

	action := actions[0]
	leaf := model.ActivityAction{TransactionHash: transactionHash}
	switch action.Kind {
	case model.ActionAddKey:
		leaf.Type = model.ActivityAccessKeyCreated
	case model.ActionCreateAccount:
		leaf.Type = model.ActivityAccountCreated
	case model.ActionDeleteAccount:
		leaf.Type = model.ActivityAccountRemoved
	case model.ActionDeleteKey:
		leaf.Type = model.ActivityAccessKeyRemoved
	case model.ActionDeployContract:
		leaf.Type = model.ActivityContractDeployed
	case model.ActionFunctionCall:
		leaf.Type = model.ActivityCallMethod
		leaf.MethodName = action.MethodName
	case model.ActionStake:
		leaf.Type = model.ActivityRestake
	case model.ActionTransfer:
		leaf.Type = model.ActivityTransfer
		if isRefund {
			leaf.Type = model.ActivityRefund
		}
		leaf.Amount = action.Deposit
	default:
		return model.ActivityAction{}, inconsistent("unknown action kind %q in transaction %s", action.Kind, transactionHash)
	}
	return leaf, nil
}
