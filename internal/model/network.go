package model

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network names a bitcoin network.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
	Simnet  Network = "simnet"
)

// Params returns the consensus parameters of the network.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	case Testnet:
		return &chaincfg.TestNet3Params, nil
	case Regtest:
		return &chaincfg.RegressionNetParams, nil
	case Signet:
		return &chaincfg.SigNetParams, nil
	case Simnet:
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", n)
	}
}
