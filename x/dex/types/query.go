package types

import (
	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryParamsRequest is the request type for the Query/Params method.
type QueryParamsRequest struct{}

// QueryParamsResponse is the response type for the Query/Params method.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryPairRequest identifies a pair by two asset ids in any order.
type QueryPairRequest struct {
	AssetA string `json:"asset_a"`
	AssetB string `json:"asset_b"`
}

// QueryPairResponse describes one pair.
type QueryPairResponse struct {
	Pair     PairRecord `json:"pair"`
	Account  string     `json:"account"`
	Reserve0 math.Int   `json:"reserve_0"`
	Reserve1 math.Int   `json:"reserve_1"`
	KLast    math.Int   `json:"k_last"`
}

// QueryPairsRequest lists registered pairs.
type QueryPairsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

// QueryPairsResponse is a page of registered pairs.
type QueryPairsResponse struct {
	Pairs      []PairRecord        `json:"pairs"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

// QueryLiquidityBalanceRequest asks for an account's LP shares of a pair.
type QueryLiquidityBalanceRequest struct {
	AssetA  string `json:"asset_a"`
	AssetB  string `json:"asset_b"`
	Account string `json:"account"`
}

// QueryLiquidityBalanceResponse holds LP shares.
type QueryLiquidityBalanceResponse struct {
	Liquidity math.Int `json:"liquidity"`
}

// QueryPersonalSupplyRequest asks for a contributor's outstanding bootstrap supply.
type QueryPersonalSupplyRequest struct {
	AssetA      string `json:"asset_a"`
	AssetB      string `json:"asset_b"`
	Contributor string `json:"contributor"`
}

// QueryPersonalSupplyResponse holds a contribution in pair order.
type QueryPersonalSupplyResponse struct {
	Amounts AmountPair `json:"amounts"`
}

// QueryFrozenRateRequest asks for the rate frozen at the end of a bootstrap.
type QueryFrozenRateRequest struct {
	AssetA string `json:"asset_a"`
	AssetB string `json:"asset_b"`
}

// QueryFrozenRateResponse holds a frozen exchange rate.
type QueryFrozenRateResponse struct {
	Rate ExchangeRate `json:"rate"`
}

// QueryAmountsByPathRequest prices a swap path. Amount is the input for
// Query/AmountOutByPath and the output for Query/AmountInByPath.
type QueryAmountsByPathRequest struct {
	Amount math.Int `json:"amount"`
	Path   string   `json:"path"`
}

// QueryAmountsByPathResponse holds the per-hop amounts.
type QueryAmountsByPathResponse struct {
	Amounts []math.Int `json:"amounts"`
}

// QueryEstimateLpRequest estimates the LP claim of a bootstrap contribution.
type QueryEstimateLpRequest struct {
	AssetA  string   `json:"asset_a"`
	AssetB  string   `json:"asset_b"`
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}

// QueryEstimateLpResponse holds an LP estimate.
type QueryEstimateLpResponse struct {
	Liquidity math.Int `json:"liquidity"`
}
