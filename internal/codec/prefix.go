package codec

// Prefix is the byte magic prepended to a payload before base58check encoding.
// It selects the human readable leading characters of the encoded string.
type Prefix []byte

var (
	// 20 byte hashes
	PrefixTz1 = Prefix{6, 161, 159} // tz1(36)
	PrefixKT1 = Prefix{2, 90, 121}  // KT1(36)

	// 32 byte hashes and seeds
	PrefixBlockHash     = Prefix{1, 52}         // B(51)
	PrefixOperationHash = Prefix{5, 116}        // o(51)
	PrefixEdSeed        = Prefix{13, 15, 58, 7} // edsk(54)

	// 32 byte public keys
	PrefixEdPK = Prefix{13, 15, 37, 217} // edpk(54)

	// 64 byte secret keys and signatures
	PrefixEdSK  = Prefix{43, 246, 78, 7}       // edsk(98)
	PrefixEdSig = Prefix{9, 245, 205, 134, 18} // edsig(99)

	// 4 byte chain ids
	PrefixChainID = Prefix{87, 82, 0} // Net(15)
)

// prefixEntry binds a prefix to its name and expected payload size.
type prefixEntry struct {
	name   string
	prefix Prefix
	size   int
}

// prefixTable is matched in order by DecodeAny. Both edsk forms share the
// text prefix, so the payload size disambiguates them.
var prefixTable = []prefixEntry{
	{"tz1", PrefixTz1, 20},
	{"KT1", PrefixKT1, 20},
	{"B", PrefixBlockHash, 32},
	{"o", PrefixOperationHash, 32},
	{"edsk-seed", PrefixEdSeed, 32},
	{"edpk", PrefixEdPK, 32},
	{"edsk", PrefixEdSK, 64},
	{"edsig", PrefixEdSig, 64},
	{"Net", PrefixChainID, 4},
}

// hasPrefix reports whether data starts with p.
func (p Prefix) hasPrefix(data []byte) bool {
	if len(data) < len(p) {
		return false
	}
	for i := range p {
		if data[i] != p[i] {
			return false
		}
	}
	return true
}
