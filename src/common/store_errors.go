package common

import "fmt"

// StoreErrType enumerates the failure modes of lookups in the tracker and in
// recorded lnd responses.
type StoreErrType uint32

const (
	// KeyNotFound means no entity is registered under the identity key.
	KeyNotFound StoreErrType = iota
	// Empty means there is nothing recorded to answer with.
	Empty
)

// StoreErr is returned by registry lookups.
type StoreErr struct {
	dataType string
	errType  StoreErrType
	key      string
}

// NewStoreErr ...
func NewStoreErr(dataType string, errType StoreErrType, key string) StoreErr {
	return StoreErr{
		dataType: dataType,
		errType:  errType,
		key:      key,
	}
}

// Error ...
func (e StoreErr) Error() string {
	m := ""
	switch e.errType {
	case KeyNotFound:
		m = "Not Found"
	case Empty:
		m = "Empty"
	}

	return fmt.Sprintf("%s, %s, %s", e.dataType, e.key, m)
}

// IsStore checks that an error is of type StoreErr and that it's code matches
// the provided StoreErr code.
func IsStore(err error, t StoreErrType) bool {
	storeErr, ok := err.(StoreErr)
	return ok && storeErr.errType == t
}
