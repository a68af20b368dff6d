package types

const (
	// ModuleName defines the module name
	ModuleName = "dex"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	// ParamsKey stores the module parameters
	ParamsKey = []byte{0x01}

	// PairStatusKeyPrefix indexes the lifecycle state of every registered pair
	PairStatusKeyPrefix = []byte{0x02}

	// PersonalSupplyKeyPrefix indexes bootstrap contributions by pair then contributor
	PersonalSupplyKeyPrefix = []byte{0x03}

	// KLastKeyPrefix stores the reserve product watermark per pair
	KLastKeyPrefix = []byte{0x04}

	// FrozenRateKeyPrefix stores the exchange rates captured when a bootstrap ends
	FrozenRateKeyPrefix = []byte{0x05}
)

// PairStatusKey returns the store key of a pair's status.
func PairStatusKey(p Pair) []byte {
	return append(cloneKey(PairStatusKeyPrefix), p.Key()...)
}

// PersonalSupplyPrefix returns the prefix of all contributions to a pair.
func PersonalSupplyPrefix(p Pair) []byte {
	return append(cloneKey(PersonalSupplyKeyPrefix), p.Key()...)
}

// PersonalSupplyKey returns the store key of one contributor's bootstrap supply.
func PersonalSupplyKey(p Pair, contributor []byte) []byte {
	return append(PersonalSupplyPrefix(p), contributor...)
}

// KLastKey returns the store key of a pair's reserve product watermark.
func KLastKey(p Pair) []byte {
	return append(cloneKey(KLastKeyPrefix), p.Key()...)
}

// FrozenRateKey returns the store key of a pair's frozen exchange rate.
func FrozenRateKey(p Pair) []byte {
	return append(cloneKey(FrozenRateKeyPrefix), p.Key()...)
}

func cloneKey(prefix []byte) []byte {
	key := make([]byte, len(prefix), len(prefix)+PairKeyLen+32)
	copy(key, prefix)
	return key
}
