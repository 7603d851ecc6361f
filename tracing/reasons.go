package tracing

import gethtracing "github.com/ethereum/go-ethereum/core/tracing"

// BalanceChangeReason mirrors the host interpreter's balance-change taxonomy
// in the vocabulary this package's log lines use, independent of whichever
// upstream enum numbering the host happens to be on.
type BalanceChangeReason int

const (
	BalanceChangeUnspecified BalanceChangeReason = iota
	BalanceChangeNativeTransfer
	BalanceChangePrecompCost
	BalanceChangeReward
	BalanceChangeFee
	BalanceChangeIssuance
	BalanceChangeRefund
	BalanceChangeAirdrop
	BalanceChangeWithdrawal
)

// NonceChangeReason mirrors the host interpreter's nonce-change taxonomy.
type NonceChangeReason int

const (
	NonceChangeUnspecified NonceChangeReason = iota
	NonceChangeEoACall
	NonceChangeContractCreator
)

func (r BalanceChangeReason) String() string {
	switch r {
	case BalanceChangeNativeTransfer:
		return "native_transfer"
	case BalanceChangePrecompCost:
		return "precomp_cost"
	case BalanceChangeReward:
		return "reward"
	case BalanceChangeFee:
		return "fee"
	case BalanceChangeIssuance:
		return "issuance"
	case BalanceChangeRefund:
		return "refund"
	case BalanceChangeAirdrop:
		return "airdrop"
	case BalanceChangeWithdrawal:
		return "withdrawal"
	default:
		return "unspecified"
	}
}

func (r NonceChangeReason) String() string {
	switch r {
	case NonceChangeEoACall:
		return "eoa_call"
	case NonceChangeContractCreator:
		return "contract_creator"
	default:
		return "unspecified"
	}
}

// balanceReasonFromGeth narrows the host's (much larger) balance-change
// reason space down to this package's vocabulary, for debug logging only —
// it is never used for control flow.
func balanceReasonFromGeth(r gethtracing.BalanceChangeReason) BalanceChangeReason {
	switch r {
	case gethtracing.BalanceIncreaseRewardMineUncle, gethtracing.BalanceIncreaseRewardMineBlock:
		return BalanceChangeReward
	case gethtracing.BalanceDecreaseGasBuy, gethtracing.BalanceIncreaseGasReturn:
		return BalanceChangeFee
	case gethtracing.BalanceChangeTransfer:
		return BalanceChangeNativeTransfer
	case gethtracing.BalanceChangeWithdrawal:
		return BalanceChangeWithdrawal
	default:
		return BalanceChangeUnspecified
	}
}
