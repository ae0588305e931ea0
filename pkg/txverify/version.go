package txverify

import "github.com/Klingon-tech/klingnet-chain/pkg/tx"

// VersionVerifier rejects any transaction not carrying the one accepted
// protocol version.
type VersionVerifier struct {
	transaction *tx.Transaction
}

func NewVersionVerifier(transaction *tx.Transaction) *VersionVerifier {
	return &VersionVerifier{transaction: transaction}
}

func (v *VersionVerifier) Verify() error {
	if v.transaction.Version != TxVersion {
		return ErrVersion
	}
	return nil
}
