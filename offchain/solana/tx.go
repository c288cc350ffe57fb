package solana

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

var (
	ErrMissingSigner   = errors.New("missing signer for required signature")
	ErrMissingFeePayer = errors.New("transaction fee payer required")
	ErrNoInstructions  = errors.New("transaction has no instructions")
	ErrUnknownSigner   = errors.New("key is not a required signer")
)

type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

type Signature [64]byte

func (s Signature) Base58() string { return base58.Encode(s[:]) }

func (s Signature) String() string { return s.Base58() }

// Transaction is an unsigned-then-signed legacy transaction. The message is
// compiled on demand so that FeePayer and RecentBlockhash may be set after
// instructions are added.
type Transaction struct {
	FeePayer        Pubkey
	RecentBlockhash [32]byte
	Instructions    []Instruction

	signatures map[Pubkey]Signature
}

func NewTransaction(instructions ...Instruction) *Transaction {
	tx := &Transaction{}
	tx.Add(instructions...)
	return tx
}

func (tx *Transaction) Add(instructions ...Instruction) {
	tx.Instructions = append(tx.Instructions, instructions...)
}

// Message compiles the legacy message and returns it along with the keys
// whose signatures it requires, fee payer first.
func (tx *Transaction) Message() ([]byte, []Pubkey, error) {
	if tx.FeePayer.IsZero() {
		return nil, nil, ErrMissingFeePayer
	}
	if len(tx.Instructions) == 0 {
		return nil, nil, ErrNoInstructions
	}
	msg, accountKeys, header, err := compileLegacyMessage(tx.RecentBlockhash, tx.FeePayer, tx.Instructions)
	if err != nil {
		return nil, nil, err
	}
	return msg, accountKeys[:header.NumRequiredSignatures], nil
}

// AddSignature attaches an externally produced signature for pk.
func (tx *Transaction) AddSignature(pk Pubkey, sig Signature) error {
	_, signers, err := tx.Message()
	if err != nil {
		return err
	}
	for _, s := range signers {
		if s == pk {
			if tx.signatures == nil {
				tx.signatures = make(map[Pubkey]Signature, len(signers))
			}
			tx.signatures[pk] = sig
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownSigner, pk.Base58())
}

// Sign signs the message with every provided key that the message requires.
// Keys not required by the message are ignored.
func (tx *Transaction) Sign(signers map[Pubkey]ed25519.PrivateKey) error {
	msg, required, err := tx.Message()
	if err != nil {
		return err
	}
	for _, pk := range required {
		priv, ok := signers[pk]
		if !ok {
			continue
		}
		var sig Signature
		copy(sig[:], ed25519.Sign(priv, msg))
		if tx.signatures == nil {
			tx.signatures = make(map[Pubkey]Signature, len(required))
		}
		tx.signatures[pk] = sig
	}
	return nil
}

// Signature returns the fee payer signature, which is the transaction id.
func (tx *Transaction) Signature() (Signature, bool) {
	sig, ok := tx.signatures[tx.FeePayer]
	return sig, ok
}

// Serialize encodes the fully signed transaction in wire format.
func (tx *Transaction) Serialize() ([]byte, error) {
	msg, required, err := tx.Message()
	if err != nil {
		return nil, err
	}

	sigs := make([]byte, 0, len(required)*64)
	for _, pk := range required {
		sig, ok := tx.signatures[pk]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSigner, pk.Base58())
		}
		if !verifySignature(pk, msg, sig) {
			return nil, fmt.Errorf("signature for %s does not match message", pk.Base58())
		}
		sigs = append(sigs, sig[:]...)
	}

	out := make([]byte, 0, len(msg)+3+len(sigs))
	out = append(out, encodeShortVecLen(len(required))...)
	out = append(out, sigs...)
	out = append(out, msg...)
	return out, nil
}

func verifySignature(pk Pubkey, msg []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig[:])
}

type accountInfo struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
	FirstSeen  int
}

func compileLegacyMessage(
	recentBlockhash [32]byte,
	feePayer Pubkey,
	instructions []Instruction,
) ([]byte, []Pubkey, MessageHeader, error) {
	infos := make(map[Pubkey]*accountInfo, 32)
	seen := 0

	touch := func(pk Pubkey, signer, writable bool) {
		if ai, ok := infos[pk]; ok {
			ai.IsSigner = ai.IsSigner || signer
			ai.IsWritable = ai.IsWritable || writable
			return
		}
		infos[pk] = &accountInfo{
			Pubkey:     pk,
			IsSigner:   signer,
			IsWritable: writable,
			FirstSeen:  seen,
		}
		seen++
	}

	// Fee payer must be a writable signer.
	touch(feePayer, true, true)

	for _, ix := range instructions {
		touch(ix.ProgramID, false, false)
		for _, am := range ix.Accounts {
			touch(am.Pubkey, am.IsSigner, am.IsWritable)
		}
	}
	if len(infos) > 256 {
		return nil, nil, MessageHeader{}, fmt.Errorf("too many account keys: %d", len(infos))
	}

	signersWritable := make([]*accountInfo, 0, 8)
	signersReadonly := make([]*accountInfo, 0, 8)
	nonsignersWritable := make([]*accountInfo, 0, 16)
	nonsignersReadonly := make([]*accountInfo, 0, 16)

	for _, ai := range infos {
		if ai.IsSigner {
			if ai.IsWritable {
				signersWritable = append(signersWritable, ai)
			} else {
				signersReadonly = append(signersReadonly, ai)
			}
			continue
		}
		if ai.IsWritable {
			nonsignersWritable = append(nonsignersWritable, ai)
		} else {
			nonsignersReadonly = append(nonsignersReadonly, ai)
		}
	}

	sortByFirstSeen(signersWritable)
	sortByFirstSeen(signersReadonly)
	sortByFirstSeen(nonsignersWritable)
	sortByFirstSeen(nonsignersReadonly)

	accountKeys := make([]Pubkey, 0, len(infos))
	for _, ai := range signersWritable {
		accountKeys = append(accountKeys, ai.Pubkey)
	}
	for _, ai := range signersReadonly {
		accountKeys = append(accountKeys, ai.Pubkey)
	}
	for _, ai := range nonsignersWritable {
		accountKeys = append(accountKeys, ai.Pubkey)
	}
	for _, ai := range nonsignersReadonly {
		accountKeys = append(accountKeys, ai.Pubkey)
	}

	h := MessageHeader{
		NumRequiredSignatures:       uint8(len(signersWritable) + len(signersReadonly)),
		NumReadonlySignedAccounts:   uint8(len(signersReadonly)),
		NumReadonlyUnsignedAccounts: uint8(len(nonsignersReadonly)),
	}

	indexOf := make(map[Pubkey]uint8, len(accountKeys))
	for i, pk := range accountKeys {
		indexOf[pk] = uint8(i)
	}

	out := make([]byte, 0, 512)
	out = append(out, h.NumRequiredSignatures, h.NumReadonlySignedAccounts, h.NumReadonlyUnsignedAccounts)
	out = append(out, encodeShortVecLen(len(accountKeys))...)
	for _, pk := range accountKeys {
		out = append(out, pk[:]...)
	}
	out = append(out, recentBlockhash[:]...)

	out = append(out, encodeShortVecLen(len(instructions))...)
	for _, ix := range instructions {
		pid := indexOf[ix.ProgramID]
		out = append(out, pid)
		out = append(out, encodeShortVecLen(len(ix.Accounts))...)
		for _, am := range ix.Accounts {
			out = append(out, indexOf[am.Pubkey])
		}
		out = append(out, encodeShortVecLen(len(ix.Data))...)
		out = append(out, ix.Data...)
	}

	return out, accountKeys, h, nil
}

func sortByFirstSeen(infos []*accountInfo) {
	for i := 0; i < len(infos); i++ {
		for j := i + 1; j < len(infos); j++ {
			if infos[j].FirstSeen < infos[i].FirstSeen {
				infos[i], infos[j] = infos[j], infos[i]
			}
		}
	}
}
