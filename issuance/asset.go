package issuance

import (
	"github.com/fox-one/mixin-sdk-go/v2"
	"github.com/shopspring/decimal"
)

// TokenAsset describes the issued token. Denom is the bank denomination the
// controller mints and burns; the rest mirrors the wrapped asset on Mixin.
type TokenAsset struct {
	Denom         string          `json:"denom"`
	AssetID       string          `json:"assetId,omitempty"`
	ChainID       string          `json:"chainId,omitempty"`
	KernelAssetID string          `json:"kernelAssetId,omitempty"`
	Symbol        string          `json:"symbol,omitempty"`
	Name          string          `json:"name,omitempty"`
	IconURL       string          `json:"iconUrl,omitempty"`
	AssetKey      string          `json:"assetKey,omitempty"`
	Precision     int32           `json:"precision,omitempty"`
	Dust          decimal.Decimal `json:"dust,omitempty"`
}

func NewTokenAsset(denom string) *TokenAsset {
	return &TokenAsset{Denom: denom}
}

func NewTokenAssetFromMixin(denom string, asset *mixin.SafeAsset) *TokenAsset {
	return &TokenAsset{
		Denom:         denom,
		AssetID:       asset.AssetID,
		ChainID:       asset.ChainID,
		KernelAssetID: asset.KernelAssetID,
		Symbol:        asset.Symbol,
		Name:          asset.Name,
		IconURL:       asset.IconURL,
		AssetKey:      asset.AssetKey,
		Precision:     asset.Precision,
		Dust:          asset.Dust,
	}
}
