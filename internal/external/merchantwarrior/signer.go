package merchantwarrior

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"MerchantWarriorGateway/internal/domain/gateway"
)

// VerificationHash signs amount-bearing requests. The gateway defines the
// digest as MD5 over the lowercased concatenation of passphrase, merchant
// UUID, amount and currency.
func VerificationHash(creds gateway.Credentials, amount, currency string) string {
	return digest(creds.APIPassphrase + creds.MerchantUUID + amount + currency)
}

// VoidVerificationHash signs processVoid requests.
func VoidVerificationHash(creds gateway.Credentials, transactionID string) string {
	return digest(creds.APIPassphrase + creds.MerchantUUID + transactionID)
}

func digest(s string) string {
	sum := md5.Sum([]byte(strings.ToLower(s)))
	return hex.EncodeToString(sum[:])
}
