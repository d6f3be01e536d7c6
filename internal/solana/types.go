package solana

// SignatureInfo is one entry of a getSignaturesForAddress page.
type SignatureInfo struct {
	Signature          string
	Slot               int64
	BlockTime          *int64
	Err                interface{} // non-nil when the transaction failed
	Memo               *string
	ConfirmationStatus string
}

// SignaturesOpts pages backwards through an address's history.
// Before excludes the given signature; an empty Before starts at the newest.
type SignaturesOpts struct {
	Before string
	Until  string
	Limit  int // node maximum is 1000
}

// AccountInfo is an account as returned by getAccountInfo.
// Data holds the decoded account bytes.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       []byte
	Executable bool
	RentEpoch  uint64
}
