package domain

import "encoding/json"

// OnchainMetadata is the decoded Metaplex token metadata account.
type OnchainMetadata struct {
	UpdateAuthority      string
	Mint                 string
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	PrimarySaleHappened  bool
	IsMutable            bool
}

// Creator is one entry of the metadata creators list.
type Creator struct {
	Address  string
	Verified bool
	Share    uint8
}

// ExternalMetadata is the off-chain JSON document referenced by OnchainMetadata.URI.
type ExternalMetadata struct {
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	ExternalURL string          `json:"external_url"`
	Attributes  []Attribute     `json:"attributes"`
	Raw         json.RawMessage `json:"-"`
}

// Attribute is a trait in the off-chain metadata.
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// AssetMetadata is what the metadata collaborator returns for one mint.
// External is nil when the off-chain document could not be fetched.
type AssetMetadata struct {
	Onchain  *OnchainMetadata
	External *ExternalMetadata
}
