package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"tradeledger/keys"
	t "tradeledger/types"
)

var ErrSign = errors.New("could not sign transaction")

// Transaction moves Amount from Sender to Receiver.
type Transaction struct {
	Sender   t.PublicKey
	Receiver t.PublicKey
	Amount   t.Amount
	Change   t.Amount
	Fee      t.Amount
}

type SignedTransaction struct {
	Transaction Transaction
	Signature   []byte
}

// NewTransaction uses the default fee and no change. The amount is not
// checked here.
func NewTransaction(sender, receiver t.PublicKey, amount t.Amount) Transaction {
	return NewTransactionWithFee(sender, receiver, amount, t.DefaultFee)
}

func NewTransactionWithFee(sender, receiver t.PublicKey, amount, fee t.Amount) Transaction {
	return Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
		Change:   0,
		Fee:      fee,
	}
}

func (txn *Transaction) Encode() []byte {
	var data []byte

	data = encodeKey(txn.Sender, data)
	data = encodeKey(txn.Receiver, data)

	data = binary.LittleEndian.AppendUint64(data, uint64(txn.Amount))
	data = binary.LittleEndian.AppendUint64(data, uint64(txn.Change))
	data = binary.LittleEndian.AppendUint64(data, uint64(txn.Fee))

	return data
}

func (txn *Transaction) Digest() [32]byte {
	return sha256.Sum256(txn.Encode())
}

// Sign signs the transaction digest. Signer failures are returned wrapped in
// ErrSign and are not retried.
func (txn Transaction) Sign(signer keys.Signer) (*SignedTransaction, error) {
	hash := txn.Digest()
	sig, err := signer.Sign(hash[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSign, err)
	}

	return &SignedTransaction{
		Transaction: txn,
		Signature:   sig,
	}, nil
}

// IsValid checks the signature against the sender's key.
func (st *SignedTransaction) IsValid() bool {
	hash := st.Transaction.Digest()
	return keys.Verify(st.Transaction.Sender, hash[:], st.Signature)
}

// Encode is the leaf encoding used when the transaction is committed to a
// block, so the signature is committed too.
func (st *SignedTransaction) Encode() []byte {
	data := st.Transaction.Encode()
	data = encodeBytes(st.Signature, data)
	return data
}
