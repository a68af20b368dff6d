package types

// Event types for the DEX module
const (
	EventTypePairCreated       = "dex_pair_created"
	EventTypePairDeleted       = "dex_pair_deleted"
	EventTypeLiquidityAdded    = "dex_liquidity_added"
	EventTypeLiquidityRemoved  = "dex_liquidity_removed"
	EventTypeAssetSwap         = "dex_asset_swap"
	EventTypeProtocolFeeMinted = "dex_protocol_fee_minted"
	EventTypeParamsUpdated     = "dex_params_updated"

	EventTypeBootstrapCreated    = "dex_bootstrap_created"
	EventTypeBootstrapUpdated    = "dex_bootstrap_updated"
	EventTypeBootstrapContribute = "dex_bootstrap_contribute"
	EventTypeBootstrapEnd        = "dex_bootstrap_end"
	EventTypeBootstrapClaim      = "dex_bootstrap_claim"
	EventTypeBootstrapRefund     = "dex_bootstrap_refund"
	EventTypeBootstrapCancelled  = "dex_bootstrap_cancelled"
)

// Event attribute keys
const (
	AttributeKeyAsset0         = "asset_0"
	AttributeKeyAsset1         = "asset_1"
	AttributeKeyAmount0        = "amount_0"
	AttributeKeyAmount1        = "amount_1"
	AttributeKeyLiquidity      = "liquidity"
	AttributeKeyTotalSupply    = "total_supply"
	AttributeKeyAccount        = "account"
	AttributeKeySender         = "sender"
	AttributeKeyRecipient      = "recipient"
	AttributeKeyPath           = "path"
	AttributeKeyAmountIn       = "amount_in"
	AttributeKeyAmountOut      = "amount_out"
	AttributeKeyFeeReceiver    = "fee_receiver"
	AttributeKeyRate0          = "rate_0"
	AttributeKeyRate1          = "rate_1"
	AttributeKeyEndBlockNumber = "end_block_number"
	AttributeKeyAuthority      = "authority"
	AttributeKeyFeePoint       = "fee_point"
	AttributeKeyExchangeFee    = "exchange_fee"
)
