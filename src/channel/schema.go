package channel

import (
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/tree"
)

// Activity and exposure values.
const (
	Active   = "active"
	Inactive = "inactive"
	Public   = "public"
	Private  = "private"
)

func amount() *tree.Schema {
	return tree.Object(tree.F("millisatoshis", tree.Int()))
}

var partnerSchema = tree.Object(
	tree.F("node", tree.Object(
		tree.F("public_key", tree.String()),
		tree.F("alias", tree.String()),
		tree.F("color", tree.String()),
		tree.F("myself", tree.Bool()),
	)),
	tree.F("initiator", tree.Bool()),
	tree.F("accounting", tree.Object(
		tree.F("balance", amount()),
	)),
	tree.F("policy", tree.Object(
		tree.F("fee", tree.Object(
			tree.F("base", amount()),
			tree.F("rate", tree.Object(
				tree.F("parts_per_million", tree.Int()),
			)),
		)),
		tree.F("htlc", tree.Object(
			tree.F("minimum", amount()),
			tree.F("maximum", amount()),
			tree.F("blocks", tree.Object(
				tree.F("delta", tree.Object(
					tree.F("minimum", tree.Int()),
				)),
			)),
		)),
	)),
	tree.F("state", tree.String()),
)

// partnerList pairs partners across views by public key.
var partnerList = tree.List(partnerSchema, "node", "public_key")

// Schema is the attribute tree of a channel. Field order is the order of
// every diff.
var Schema = tree.Object(
	tree.F("id", tree.String()),
	tree.F("point", tree.String()),
	tree.F("up_at", tree.Int()),
	tree.F("state", tree.String()),
	tree.F("exposure", tree.String()),
	tree.F("accounting", tree.Object(
		tree.F("capacity", amount()),
		tree.F("sent", amount()),
		tree.F("received", amount()),
		tree.F("unsettled", amount()),
	)),
	tree.F("partners", partnerList),
)

// Kind describes channels to the entity engine.
var Kind = &entity.Kind{
	Name:     identity.ChannelKind,
	Schema:   Schema,
	Identify: identify,
	Mine:     mine,
}

func identify(root *tree.Node) (string, error) {
	id := root.Get("id")
	if id == nil {
		return "", entity.AbsentFieldError{Kind: identity.ChannelKind, Field: "id"}
	}
	s, ok := id.Value.(string)
	if !ok || s == "" {
		return "", tree.NewMalformedViewError(tree.Path{"id"}, "channel id must be a non-empty string")
	}
	return identity.Channel(s), nil
}

func mine(root *tree.Node) bool {
	partners := root.Get("partners")
	if partners == nil {
		return false
	}
	for _, p := range partners.Items {
		if entity.Flagged(p.Lookup("node", "myself")) {
			return true
		}
	}
	return false
}
