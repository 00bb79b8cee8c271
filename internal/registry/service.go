// Package registry resolves token identifiers to canonical descriptors for
// the active network. It is the single source of truth for decimals and
// native-asset status; the sets are read-only after start-up.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
)

const REGISTRY_SERVICE = "token-registry-service"

// Service holds the immutable token set for the active network. No locking
// is needed: the maps are built once in Configure and only read afterwards.
type Service struct {
	container.BaseDIInstance

	network   config.Network
	bySymbol  map[string]domain.Token
	byAddress map[common.Address]domain.Token
	ordered   []domain.Token
}

func (svc *Service) ID() string {
	return REGISTRY_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	chainConf := c.GetConfig(config.CHAIN_CONFIG_KEY).(*config.ChainConfig)
	return svc.load(chainConf.Network)
}

func (svc *Service) load(network config.Network) error {
	svc.network = network

	tokens := tokensForNetwork(svc.network)
	svc.bySymbol = make(map[string]domain.Token, len(tokens))
	svc.byAddress = make(map[common.Address]domain.Token, len(tokens))
	svc.ordered = make([]domain.Token, len(tokens))
	copy(svc.ordered, tokens)

	for _, t := range tokens {
		sym := strings.ToUpper(t.Symbol)
		if _, dup := svc.bySymbol[sym]; dup {
			return fmt.Errorf("duplicate token symbol %q in %s table", t.Symbol, svc.network)
		}
		svc.bySymbol[sym] = t
		svc.byAddress[t.Address] = t
	}

	sort.Slice(svc.ordered, func(i, j int) bool {
		return svc.ordered[i].Symbol < svc.ordered[j].Symbol
	})
	return nil
}

func (svc *Service) Start() error {
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// Resolve accepts a case-insensitive symbol or a hex contract address and
// returns the canonical descriptor for the active network.
func (svc *Service) Resolve(identifier string) (domain.Token, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.Token{}, fmt.Errorf("%w: empty identifier", domain.ErrTokenNotFound)
	}

	if t, ok := svc.bySymbol[strings.ToUpper(identifier)]; ok {
		return t, nil
	}

	// Address comparison is case-insensitive: HexToAddress normalizes.
	if common.IsHexAddress(identifier) {
		if t, ok := svc.byAddress[common.HexToAddress(identifier)]; ok {
			return t, nil
		}
	}

	return domain.Token{}, fmt.Errorf("%w: %s on %s", domain.ErrTokenNotFound, identifier, svc.network)
}

func (svc *Service) IsSupported(identifier string) bool {
	_, err := svc.Resolve(identifier)
	return err == nil
}

// List returns the supported tokens sorted by symbol, for display.
func (svc *Service) List() []domain.Token {
	out := make([]domain.Token, len(svc.ordered))
	copy(out, svc.ordered)
	return out
}

// Network returns the active network name.
func (svc *Service) Network() config.Network {
	return svc.network
}
