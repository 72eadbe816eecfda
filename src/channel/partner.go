package channel

import (
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/tree"
)

// Partner is one side of a channel. It is addressed by public key, so it
// stays valid across updates that reorder or extend the partner list.
type Partner struct {
	c   *Channel
	key string
}

func (p *Partner) elem() *tree.Node {
	list := p.c.e.Lookup("partners")
	return list.At(tree.FindElem(partnerList, list, p.key))
}

func (p *Partner) node() *tree.Node {
	return p.elem().Get("node")
}

func (p *Partner) leaf(path ...interface{}) (interface{}, error) {
	n := p.elem().Lookup(path...)
	if n == nil {
		return nil, entity.AbsentFieldError{
			Kind:  Kind.Name,
			Key:   p.c.Key(),
			Field: tree.Path(append([]interface{}{"partners", p.key}, path...)).String(),
		}
	}
	return n.Value, nil
}

func (p *Partner) str(path ...interface{}) (string, error) {
	v, err := p.leaf(path...)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (p *Partner) num(path ...interface{}) (int64, error) {
	v, err := p.leaf(path...)
	if err != nil {
		return 0, err
	}
	i, _ := v.(int64)
	return i, nil
}

func (p *Partner) flag(path ...interface{}) (bool, error) {
	v, err := p.leaf(path...)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// PublicKey ...
func (p *Partner) PublicKey() string {
	return p.key
}

// Alias ...
func (p *Partner) Alias() (string, error) {
	return p.str("node", "alias")
}

// Color ...
func (p *Partner) Color() (string, error) {
	return p.str("node", "color")
}

// Myself reports whether this partner is the local node.
func (p *Partner) Myself() (bool, error) {
	return p.flag("node", "myself")
}

// Initiator reports whether this partner opened the channel.
func (p *Partner) Initiator() (bool, error) {
	return p.flag("initiator")
}

// State returns Active or Inactive for this direction.
func (p *Partner) State() (string, error) {
	return p.str("state")
}

// BaseFee returns the base forwarding fee in millisatoshis.
func (p *Partner) BaseFee() (int64, error) {
	return p.num("policy", "fee", "base", "millisatoshis")
}

// FeeRate returns the proportional forwarding fee in parts per million.
func (p *Partner) FeeRate() (int64, error) {
	return p.num("policy", "fee", "rate", "parts_per_million")
}

// MinHTLC returns the smallest forwardable amount in millisatoshis.
func (p *Partner) MinHTLC() (int64, error) {
	return p.num("policy", "htlc", "minimum", "millisatoshis")
}

// MaxHTLC returns the largest forwardable amount in millisatoshis.
func (p *Partner) MaxHTLC() (int64, error) {
	return p.num("policy", "htlc", "maximum", "millisatoshis")
}

// TimeLockDelta returns the minimum CLTV delta in blocks.
func (p *Partner) TimeLockDelta() (int64, error) {
	return p.num("policy", "htlc", "blocks", "delta", "minimum")
}

// Balance returns this partner's share of the channel in millisatoshis.
// Only channels of the local node expose balances.
func (p *Partner) Balance() (int64, error) {
	if err := p.c.e.RequireMine("partner.accounting.balance"); err != nil {
		return 0, err
	}
	return p.num("accounting", "balance", "millisatoshis")
}
