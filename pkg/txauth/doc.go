/*
Package txauth signs and authenticates transactions.

Signing hash:
  - SHA-256 over the serialized raw_data only
  - signatures are stored beside raw_data, never inside it, so attaching
    them leaves the hash unchanged
  - raw_data.timestamp is covered; stamp it before signing

Signature layout (65 bytes):
  - r = sig[0:32], s = sig[32:64], v = sig[64]
  - v is either a recovery id (0/1) or 27/28; unpacking maps v < 27 to v + 27
  - recovery uses v - 27

Authorization rule:
  - signature[i] authorizes contract[i]
  - len(signature) must equal len(contract) and must not be zero
  - the address recovered from signature[i] must equal the owner declared by
    contract[i]; a contract whose owner cannot be determined is never authorized

Validation fails closed: any fault (bad length, unrecoverable signature,
undecodable payload) makes the transaction invalid rather than surfacing as
an error or a panic.
*/
package txauth
