package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader заголовок подписи вебхука платёжного провайдера.
const SignatureHeader = "Stripe-Signature"

var (
	errSignatureMissing   = errors.New("billing: подпись отсутствует")
	errSignatureMalformed = errors.New("billing: некорректный формат подписи")
	errSignatureMismatch  = errors.New("billing: подпись не совпадает")
	errSignatureExpired   = errors.New("billing: подпись устарела")
)

// VerifySignature проверяет заголовок вида "t=<unix>,v1=<hex>[,v1=<hex>]".
// Подпись считается по строке "<t>.<payload>" ключом secret (HMAC-SHA256).
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if strings.TrimSpace(header) == "" {
		return errSignatureMissing
	}

	var timestamp string
	var signatures [][]byte
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			sig, err := hex.DecodeString(value)
			if err == nil {
				signatures = append(signatures, sig)
			}
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return errSignatureMalformed
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errSignatureMalformed
	}

	expected := ComputeSignature(payload, timestamp, secret)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			matched = true
			break
		}
	}
	if !matched {
		return errSignatureMismatch
	}

	if tolerance > 0 {
		signedAt := time.Unix(unix, 0)
		if now.Sub(signedAt) > tolerance || signedAt.Sub(now) > tolerance {
			return errSignatureExpired
		}
	}
	return nil
}

// ComputeSignature считает v1 подпись для payload.
func ComputeSignature(payload []byte, timestamp, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignatureHeaderValue собирает заголовок подписи. Используется CLI и тестами.
func SignatureHeaderValue(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + hex.EncodeToString(ComputeSignature(payload, ts, secret))
}
