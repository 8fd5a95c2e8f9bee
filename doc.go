// Package auth implements an account lifecycle and session engine:
// registration with emailed or texted verification codes, account
// activation, credential login, paired access/refresh JWT issuance,
// refresh rotation, logout, password reset, and email change.
//
// Trust artifacts:
//   - Accounts carry three secrets that never leave the package: the
//     password hash, the current verification code hash plus its expiry,
//     and the hash of the one valid refresh token. Every account the
//     engine returns is a scrubbed projection (see Account.Public).
//   - A single refresh session is valid per account. Rotation issues a
//     fresh token pair under the same session id and rebinds the stored
//     refresh hash; logout and password reset clear it.
//
// Storage:
//   - AccountStore is the narrow persistence contract. The bundled Bun
//     implementation (NewAccountsRepository) reports modified counts so
//     the engine can detect races without re-reading; callers may bring
//     their own store as long as counts are accurate.
package auth
