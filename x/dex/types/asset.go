package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Asset classes understood by the dex.
const (
	AssetTypeNative    uint8 = 0
	AssetTypeLocal     uint8 = 1
	AssetTypeLiquidity uint8 = 2
)

// AssetIdLen is the length of the canonical byte encoding of an AssetId.
const AssetIdLen = 4 + 1 + 8

// denomPrefix prefixes the bank denomination of every dex-managed asset.
const denomPrefix = "asset"

// AssetId identifies a fungible asset by chain scope, asset class and index.
// The ordering of asset ids is only a canonicalization key.
type AssetId struct {
	ChainId    uint32 `json:"chain_id"`
	AssetType  uint8  `json:"asset_type"`
	AssetIndex uint64 `json:"asset_index"`
}

// NewAssetId returns an AssetId.
func NewAssetId(chainID uint32, assetType uint8, index uint64) AssetId {
	return AssetId{ChainId: chainID, AssetType: assetType, AssetIndex: index}
}

// Compare returns -1, 0 or 1 ordering a before, equal to, or after b.
func (a AssetId) Compare(b AssetId) int {
	switch {
	case a.ChainId != b.ChainId:
		if a.ChainId < b.ChainId {
			return -1
		}
		return 1
	case a.AssetType != b.AssetType:
		if a.AssetType < b.AssetType {
			return -1
		}
		return 1
	case a.AssetIndex != b.AssetIndex:
		if a.AssetIndex < b.AssetIndex {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether a orders strictly before b.
func (a AssetId) Less(b AssetId) bool {
	return a.Compare(b) < 0
}

// IsLiquidity reports whether the asset is an LP share asset.
func (a AssetId) IsLiquidity() bool {
	return a.AssetType == AssetTypeLiquidity
}

// Bytes returns the big-endian encoding. Byte order equals asset order.
func (a AssetId) Bytes() []byte {
	bz := make([]byte, AssetIdLen)
	binary.BigEndian.PutUint32(bz[0:4], a.ChainId)
	bz[4] = a.AssetType
	binary.BigEndian.PutUint64(bz[5:], a.AssetIndex)
	return bz
}

// AssetIdFromBytes decodes the encoding produced by Bytes.
func AssetIdFromBytes(bz []byte) (AssetId, error) {
	if len(bz) != AssetIdLen {
		return AssetId{}, ErrInvalidAsset.Wrapf("expected %d bytes, got %d", AssetIdLen, len(bz))
	}
	return AssetId{
		ChainId:    binary.BigEndian.Uint32(bz[0:4]),
		AssetType:  bz[4],
		AssetIndex: binary.BigEndian.Uint64(bz[5:]),
	}, nil
}

// Denom returns the bank denomination used for this asset.
func (a AssetId) Denom() string {
	return fmt.Sprintf("%s/%d/%d/%d", denomPrefix, a.ChainId, a.AssetType, a.AssetIndex)
}

func (a AssetId) String() string {
	return fmt.Sprintf("%d/%d/%d", a.ChainId, a.AssetType, a.AssetIndex)
}

// ParseAssetId parses either "chain/type/index" or the bank form
// "asset/chain/type/index".
func ParseAssetId(s string) (AssetId, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) == 4 && parts[0] == denomPrefix {
		parts = parts[1:]
	}
	if len(parts) != 3 {
		return AssetId{}, ErrInvalidAsset.Wrapf("malformed asset id %q", s)
	}

	chainID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return AssetId{}, ErrInvalidAsset.Wrapf("chain id %q: %v", parts[0], err)
	}
	assetType, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return AssetId{}, ErrInvalidAsset.Wrapf("asset type %q: %v", parts[1], err)
	}
	index, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return AssetId{}, ErrInvalidAsset.Wrapf("asset index %q: %v", parts[2], err)
	}
	return NewAssetId(uint32(chainID), uint8(assetType), index), nil
}

// ParsePath parses a comma separated list of asset ids.
func ParsePath(s string) ([]AssetId, error) {
	fields := strings.Split(s, ",")
	path := make([]AssetId, 0, len(fields))
	for _, f := range fields {
		id, err := ParseAssetId(f)
		if err != nil {
			return nil, err
		}
		path = append(path, id)
	}
	return path, nil
}
