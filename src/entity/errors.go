package entity

import (
	"fmt"

	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/tree"
)

// IdentityMismatchError is returned when a view's identity fields do not
// hash to the key of the entity it is applied to. The entity is unchanged.
type IdentityMismatchError = identity.MismatchError

// IsIdentityMismatch checks that an error is an IdentityMismatchError.
func IsIdentityMismatch(err error) bool {
	return identity.IsMismatch(err)
}

// UnknownEntityError is returned by accessors that need an authoritative
// source to have confirmed the entity.
type UnknownEntityError struct {
	Kind     string
	Key      string
	Accessor string
}

// Error ...
func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("%s %s is not known to the local node, cannot read %s", e.Kind, short(e.Key), e.Accessor)
}

// IsUnknownEntity checks that an error is an UnknownEntityError.
func IsUnknownEntity(err error) bool {
	_, ok := err.(UnknownEntityError)
	return ok
}

// NotAuthorizedViewError is returned by accessors reserved to entities the
// local node participates in. Kind tells channels and nodes apart.
type NotAuthorizedViewError struct {
	Kind     string
	Key      string
	Accessor string
}

// Error ...
func (e NotAuthorizedViewError) Error() string {
	return fmt.Sprintf("not your %s: %s is only visible on %s %s owned by the local node", e.Kind, e.Accessor, e.Kind, short(e.Key))
}

// IsNotAuthorized checks that an error is a NotAuthorizedViewError of any
// kind.
func IsNotAuthorized(err error) bool {
	_, ok := err.(NotAuthorizedViewError)
	return ok
}

// IsNotYourChannel checks that an error is a NotAuthorizedViewError raised
// by a channel.
func IsNotYourChannel(err error) bool {
	e, ok := err.(NotAuthorizedViewError)
	return ok && e.Kind == identity.ChannelKind
}

// IsNotYourNode checks that an error is a NotAuthorizedViewError raised by a
// node.
func IsNotYourNode(err error) bool {
	e, ok := err.(NotAuthorizedViewError)
	return ok && e.Kind == identity.NodeKind
}

// ConstructionArgumentError is returned when an entity is given zero or
// several origins.
type ConstructionArgumentError struct {
	Reason string
}

// Error ...
func (e ConstructionArgumentError) Error() string {
	return fmt.Sprintf("invalid construction arguments: %s", e.Reason)
}

// IsConstructionArgument checks that an error is a ConstructionArgumentError.
func IsConstructionArgument(err error) bool {
	_, ok := err.(ConstructionArgumentError)
	return ok
}

// InconsistentMutationError is returned when a merged snapshot fails the
// post-merge checks. The entity is unchanged.
type InconsistentMutationError struct {
	Key    string
	Path   tree.Path
	Reason string
}

// Error ...
func (e InconsistentMutationError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("inconsistent mutation of %s: %s", short(e.Key), e.Reason)
	}
	return fmt.Sprintf("inconsistent mutation of %s at %s: %s", short(e.Key), e.Path, e.Reason)
}

// IsInconsistentMutation checks that an error is an InconsistentMutationError.
func IsInconsistentMutation(err error) bool {
	_, ok := err.(InconsistentMutationError)
	return ok
}

// AbsentFieldError is returned by an accessor whose field no source has
// supplied yet.
type AbsentFieldError struct {
	Kind  string
	Key   string
	Field string
}

// Error ...
func (e AbsentFieldError) Error() string {
	return fmt.Sprintf("%s %s: %s is unknown", e.Kind, short(e.Key), e.Field)
}

// IsAbsentField checks that an error is an AbsentFieldError.
func IsAbsentField(err error) bool {
	_, ok := err.(AbsentFieldError)
	return ok
}

func short(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
