package keeper

import (
	"context"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/query"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pairswap/pairswap/x/dex/types"
)

const (
	defaultPaginationLimit = 100
	maxPaginationLimit     = 1000
)

// Querier serves the read-only dex queries.
type Querier struct {
	Keeper
}

// NewQuerier returns a Querier backed by keeper.
func NewQuerier(keeper Keeper) Querier {
	return Querier{Keeper: keeper}
}

// Params returns the module parameters
func (q Querier) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	params, err := q.Keeper.GetParams(goCtx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Pair returns the status, settlement account, reserves and watermark of a pair.
func (q Querier) Pair(goCtx context.Context, req *types.QueryPairRequest) (*types.QueryPairResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	pair, err := parsePairRequest(req.AssetA, req.AssetB)
	if err != nil {
		return nil, err
	}

	st, err := q.Keeper.GetPairStatus(goCtx, pair)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	kLast, err := q.Keeper.GetKLast(goCtx, pair)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	reserve0, reserve1 := q.Keeper.GetReserves(goCtx, pair)

	return &types.QueryPairResponse{
		Pair:     types.PairRecord{Pair: pair, Status: st},
		Account:  pair.Account().String(),
		Reserve0: reserve0,
		Reserve1: reserve1,
		KLast:    kLast,
	}, nil
}

// Pairs returns registered pairs with pagination
func (q Querier) Pairs(goCtx context.Context, req *types.QueryPairsRequest) (*types.QueryPairsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	ctx := sdk.UnwrapSDKContext(goCtx)

	if req.Pagination == nil {
		req.Pagination = &query.PageRequest{Limit: defaultPaginationLimit}
	} else {
		if req.Pagination.Limit == 0 {
			req.Pagination.Limit = defaultPaginationLimit
		}
		if req.Pagination.Limit > maxPaginationLimit {
			req.Pagination.Limit = maxPaginationLimit
		}
	}
	ctx.GasMeter().ConsumeGas(req.Pagination.Limit*100, "paginated pairs query")

	pairs := make([]types.PairRecord, 0, int(req.Pagination.Limit))
	pairStore := prefix.NewStore(q.Keeper.getStore(goCtx), types.PairStatusKeyPrefix)

	pageRes, err := query.Paginate(pairStore, req.Pagination, func(key []byte, value []byte) error {
		pair, err := types.PairFromKey(key)
		if err != nil {
			return err
		}
		st, err := types.UnmarshalPairStatus(value)
		if err != nil {
			return err
		}
		pairs = append(pairs, types.PairRecord{Pair: pair, Status: st})
		return nil
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Pairs: paginate: %v", err)
	}

	return &types.QueryPairsResponse{
		Pairs:      pairs,
		Pagination: pageRes,
	}, nil
}

// LiquidityBalance returns an account's LP shares of a pair.
func (q Querier) LiquidityBalance(goCtx context.Context, req *types.QueryLiquidityBalanceRequest) (*types.QueryLiquidityBalanceResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	pair, err := parsePairRequest(req.AssetA, req.AssetB)
	if err != nil {
		return nil, err
	}
	account, err := sdk.AccAddressFromBech32(req.Account)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid account: %v", err)
	}

	liquidity, err := q.Keeper.GetLiquidityBalance(goCtx, pair.Asset0, pair.Asset1, account)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &types.QueryLiquidityBalanceResponse{Liquidity: liquidity}, nil
}

// PersonalSupply returns a contributor's outstanding bootstrap supply.
func (q Querier) PersonalSupply(goCtx context.Context, req *types.QueryPersonalSupplyRequest) (*types.QueryPersonalSupplyResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	pair, err := parsePairRequest(req.AssetA, req.AssetB)
	if err != nil {
		return nil, err
	}
	contributor, err := sdk.AccAddressFromBech32(req.Contributor)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid contributor: %v", err)
	}

	amounts, found, err := q.Keeper.GetPersonalSupply(goCtx, pair.Asset0, pair.Asset1, contributor)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "no contribution of %s to %s", req.Contributor, pair)
	}
	return &types.QueryPersonalSupplyResponse{Amounts: amounts}, nil
}

// FrozenRate returns the exchange rate frozen when a bootstrap ended.
func (q Querier) FrozenRate(goCtx context.Context, req *types.QueryFrozenRateRequest) (*types.QueryFrozenRateResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	pair, err := parsePairRequest(req.AssetA, req.AssetB)
	if err != nil {
		return nil, err
	}

	rate, found, err := q.Keeper.GetFrozenRate(goCtx, pair.Asset0, pair.Asset1)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "pair %s has no frozen rate", pair)
	}
	return &types.QueryFrozenRateResponse{Rate: rate}, nil
}

// AmountOutByPath prices selling an exact amount along a path.
func (q Querier) AmountOutByPath(goCtx context.Context, req *types.QueryAmountsByPathRequest) (*types.QueryAmountsByPathResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	path, err := types.ParsePath(req.Path)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	amounts, err := q.Keeper.GetAmountOutByPath(goCtx, req.Amount, path)
	if err != nil {
		return nil, err
	}
	return &types.QueryAmountsByPathResponse{Amounts: amounts}, nil
}

// AmountInByPath prices buying an exact amount at the end of a path.
func (q Querier) AmountInByPath(goCtx context.Context, req *types.QueryAmountsByPathRequest) (*types.QueryAmountsByPathResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	path, err := types.ParsePath(req.Path)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	amounts, err := q.Keeper.GetAmountInByPath(goCtx, req.Amount, path)
	if err != nil {
		return nil, err
	}
	return &types.QueryAmountsByPathResponse{Amounts: amounts}, nil
}

// EstimateLp estimates the LP claim of a bootstrap contribution.
func (q Querier) EstimateLp(goCtx context.Context, req *types.QueryEstimateLpRequest) (*types.QueryEstimateLpResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	a, err := types.ParseAssetId(req.AssetA)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	b, err := types.ParseAssetId(req.AssetB)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	liquidity, err := q.Keeper.EstimateLpForBootstrap(goCtx, a, b, req.AmountA, req.AmountB)
	if err != nil {
		return nil, err
	}
	return &types.QueryEstimateLpResponse{Liquidity: liquidity}, nil
}

func parsePairRequest(assetA, assetB string) (types.Pair, error) {
	a, err := types.ParseAssetId(assetA)
	if err != nil {
		return types.Pair{}, status.Error(codes.InvalidArgument, err.Error())
	}
	b, err := types.ParseAssetId(assetB)
	if err != nil {
		return types.Pair{}, status.Error(codes.InvalidArgument, err.Error())
	}
	pair, err := types.NewPair(a, b)
	if err != nil {
		return types.Pair{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return pair, nil
}
