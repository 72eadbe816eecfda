// Package lnd declares the lnd responses the adapters consume and the client
// contract the fetch and tracker packages call.
//
// Field names follow lnrpc's JSON mapping. Amounts are satoshis unless the
// field name says otherwise. No RPC transport lives here: Client is satisfied
// by whatever connection the embedding program uses, and Dir reads recorded
// responses from disk.
package lnd
