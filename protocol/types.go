package protocol

// SolanaPubkey is a raw 32-byte account key as stored in program accounts.
type SolanaPubkey [32]byte
