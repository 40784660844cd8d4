// internal/payment/signature_test.go
package payment

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key"

func TestSign_KnownVector(t *testing.T) {
	// echo -n "order_123|pay_456" | openssl dgst -sha256 -hmac test_secret_key
	sig := Sign(testSecret, "order_123", "pay_456")
	assert.Equal(t, "33e716317729416ee33d40ebff5fa46be56c0923a00e08038a4d7c60db26fc64", sig)
	assert.NotEqual(t, sig, Sign(testSecret, "order_123", "pay_457"))
	assert.NotEqual(t, sig, Sign("other", "order_123", "pay_456"))
}

func TestVerifySignature(t *testing.T) {
	sig := Sign(testSecret, "order_123", "pay_456")

	assert.True(t, VerifySignature(testSecret, "order_123", "pay_456", sig))
	assert.False(t, VerifySignature(testSecret, "order_123", "pay_456", ""))
	assert.False(t, VerifySignature("", "order_123", "pay_456", sig))
	assert.False(t, VerifySignature(testSecret, "order_124", "pay_456", sig))
	assert.False(t, VerifySignature(testSecret, "order_123", "pay_456", sig[:63]))
}

func TestVerifySignature_SingleBitFlip(t *testing.T) {
	sig := Sign(testSecret, "order_123", "pay_456")
	raw, err := hex.DecodeString(sig)
	require.NoError(t, err)

	for i := 0; i < len(raw)*8; i++ {
		tampered := append([]byte(nil), raw...)
		tampered[i/8] ^= 1 << (i % 8)
		assert.False(t, VerifySignature(testSecret, "order_123", "pay_456", hex.EncodeToString(tampered)), "bit %d", i)
	}
}

func TestParseReceipt(t *testing.T) {
	id, ok := ParseReceipt(Receipt("65f1c0"))
	assert.True(t, ok)
	assert.Equal(t, "65f1c0", id)

	_, ok = ParseReceipt("rcptid_1700000000000")
	assert.False(t, ok)

	_, ok = ParseReceipt("order_rcptid_")
	assert.False(t, ok)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(80000), ToMinorUnits(800))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(0), ToMinorUnits(0))
	assert.Equal(t, int64(math.MaxInt64), ToMinorUnits(1e300))
	assert.Equal(t, int64(math.MinInt64), ToMinorUnits(-1e300))
}
