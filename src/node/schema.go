package node

import (
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/tree"
)

// Implementation is the only node software the adapters know about.
const Implementation = "lnd"

// Schema is the attribute tree of a node.
var Schema = tree.Object(
	tree.F("public_key", tree.String()),
	tree.F("alias", tree.String()),
	tree.F("color", tree.String()),
	tree.F("myself", tree.Bool()),
	tree.F("platform", tree.Object(
		tree.F("blockchain", tree.String()),
		tree.F("network", tree.String()),
		tree.F("lightning", tree.Object(
			tree.F("implementation", tree.String()),
			tree.F("version", tree.String()),
		)),
	)),
)

// Kind describes nodes to the entity engine.
var Kind = &entity.Kind{
	Name:     identity.NodeKind,
	Schema:   Schema,
	Identify: identify,
	Mine: func(root *tree.Node) bool {
		return entity.Flagged(root.Get("myself"))
	},
}

func identify(root *tree.Node) (string, error) {
	pk := root.Get("public_key")
	if pk == nil {
		return "", entity.AbsentFieldError{Kind: identity.NodeKind, Field: "public_key"}
	}
	s, ok := pk.Value.(string)
	if !ok || s == "" {
		return "", tree.NewMalformedViewError(tree.Path{"public_key"}, "public key must be a non-empty string")
	}
	return identity.Node(s), nil
}
