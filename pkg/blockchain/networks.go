package blockchain

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Network is one RPC endpoint the verifier can query.
type Network struct {
	Name          string `yaml:"name"`
	RPCURL        string `yaml:"rpcUrl"`
	ChainID       int64  `yaml:"chainId"`
	Confirmations uint64 `yaml:"confirmations"`
	// ContractAddress is the escrow contract recorded on agreements funded on this network.
	ContractAddress string `yaml:"contractAddress,omitempty"`
}

// Networks is the configured network table keyed by lower-case name.
type Networks map[string]Network

type networksFile struct {
	Networks []Network `yaml:"networks"`
}

// LoadNetworks reads the network table from a YAML file of the form
//
//	networks:
//	  - name: sepolia
//	    rpcUrl: https://...
//	    chainId: 11155111
//	    confirmations: 2
func LoadNetworks(path string) (Networks, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks file: %w", err)
	}
	return ParseNetworks(raw)
}

// ParseNetworks decodes a YAML network table.
func ParseNetworks(raw []byte) (Networks, error) {
	var f networksFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse networks file: %w", err)
	}
	nets := make(Networks, len(f.Networks))
	for _, n := range f.Networks {
		name := strings.ToLower(strings.TrimSpace(n.Name))
		if name == "" {
			return nil, fmt.Errorf("network without a name")
		}
		if n.RPCURL == "" {
			return nil, fmt.Errorf("network %s has no rpcUrl", name)
		}
		n.Name = name
		nets[name] = n
	}
	return nets, nil
}

// NetworksFromEnv builds the table from RPC_URL_<NAME>, CHAIN_ID_<NAME> and
// CONFIRMATIONS_<NAME> variables in environ (os.Environ format).
func NetworksFromEnv(environ []string) Networks {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	nets := make(Networks)
	for k, url := range vars {
		suffix, ok := strings.CutPrefix(k, "RPC_URL_")
		if !ok || suffix == "" || url == "" {
			continue
		}
		n := Network{Name: strings.ToLower(suffix), RPCURL: url}
		if id, err := strconv.ParseInt(vars["CHAIN_ID_"+suffix], 10, 64); err == nil {
			n.ChainID = id
		}
		if c, err := strconv.ParseUint(vars["CONFIRMATIONS_"+suffix], 10, 64); err == nil {
			n.Confirmations = c
		}
		n.ContractAddress = vars["ESCROW_CONTRACT_"+suffix]
		nets[n.Name] = n
	}
	return nets
}

// Merge returns a table with other's entries overriding n's.
func (n Networks) Merge(other Networks) Networks {
	out := make(Networks, len(n)+len(other))
	for k, v := range n {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Lookup finds a network by case-insensitive name.
func (n Networks) Lookup(name string) (Network, error) {
	net, ok := n[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return net, nil
}

// Names lists the configured networks in order.
func (n Networks) Names() []string {
	names := make([]string, 0, len(n))
	for k := range n {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
