package registry

import (
	"errors"
	"sort"
	"testing"

	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
)

func mainnetRegistry(t *testing.T) *Service {
	t.Helper()
	svc := &Service{}
	if err := svc.load(config.MainnetNetwork); err != nil {
		t.Fatalf("load mainnet: %v", err)
	}
	return svc
}

func TestResolveBySymbol(t *testing.T) {
	svc := mainnetRegistry(t)

	tests := []struct {
		identifier string
		wantSymbol string
	}{
		{"USDC", "USDC"},
		{"usdc", "USDC"},
		{"  WeTh ", "WETH"},
		{"gldr", "GLDR"},
		{"eth", "ETH"},
	}
	for _, tt := range tests {
		token, err := svc.Resolve(tt.identifier)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", tt.identifier, err)
			continue
		}
		if token.Symbol != tt.wantSymbol {
			t.Errorf("Resolve(%q) = %s, want %s", tt.identifier, token.Symbol, tt.wantSymbol)
		}
	}
}

func TestResolveByAddress(t *testing.T) {
	svc := mainnetRegistry(t)

	usdc, err := svc.Resolve("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err != nil {
		t.Fatalf("resolve by address: %v", err)
	}
	if usdc.Symbol != "USDC" || usdc.Decimals != 6 {
		t.Errorf("got %s/%d, want USDC/6", usdc.Symbol, usdc.Decimals)
	}

	// Address matching ignores checksum casing.
	lower, err := svc.Resolve("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	if err != nil {
		t.Fatalf("resolve by lowercase address: %v", err)
	}
	if lower.Address != usdc.Address {
		t.Error("lowercase address resolved to a different token")
	}
}

func TestResolveNativeToken(t *testing.T) {
	svc := mainnetRegistry(t)

	eth, err := svc.Resolve("ETH")
	if err != nil {
		t.Fatalf("resolve ETH: %v", err)
	}
	if !eth.Native {
		t.Error("ETH must be flagged native")
	}
	if eth.Address != domain.NativeTokenAddress {
		t.Errorf("ETH address = %s, want sentinel", eth.Address)
	}
}

func TestResolveUnknown(t *testing.T) {
	svc := mainnetRegistry(t)

	for _, identifier := range []string{"", "  ", "SHIB", "0x0000000000000000000000000000000000000001"} {
		if _, err := svc.Resolve(identifier); !errors.Is(err, domain.ErrTokenNotFound) {
			t.Errorf("Resolve(%q) = %v, want ErrTokenNotFound", identifier, err)
		}
	}
}

func TestNetworkTablesDisjoint(t *testing.T) {
	mainnet := mainnetRegistry(t)

	testnet := &Service{}
	if err := testnet.load(config.TestnetNetwork); err != nil {
		t.Fatalf("load testnet: %v", err)
	}

	mainnetWETH, _ := mainnet.Resolve("WETH")
	testnetWETH, err := testnet.Resolve("WETH")
	if err != nil {
		t.Fatalf("testnet WETH: %v", err)
	}
	if mainnetWETH.Address == testnetWETH.Address {
		t.Error("mainnet and testnet WETH share an address")
	}

	if testnet.IsSupported("WBTC") {
		t.Error("WBTC must not be listed on testnet")
	}
}

func TestListSortedBySymbol(t *testing.T) {
	svc := mainnetRegistry(t)

	tokens := svc.List()
	if len(tokens) == 0 {
		t.Fatal("empty token list")
	}
	if !sort.SliceIsSorted(tokens, func(i, j int) bool {
		return tokens[i].Symbol < tokens[j].Symbol
	}) {
		t.Error("List() is not sorted by symbol")
	}

	// List hands out a copy, not the backing slice.
	tokens[0].Symbol = "MUTATED"
	if svc.List()[0].Symbol == "MUTATED" {
		t.Error("List() exposes internal state")
	}
}
