package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var errBadCookie = errors.New("session cookie malformed or forged")

// signer encodes a value as base64(json) "." base64(hmac-sha256).
type signer struct {
	key []byte
}

func (s signer) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	return h.Sum(nil)
}

func (s signer) encode(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(s.mac(payload)), nil
}

func (s signer) decode(raw string, v any) error {
	body, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return errBadCookie
	}
	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(body)
	if err != nil {
		return errBadCookie
	}
	got, err := enc.DecodeString(sig)
	if err != nil || !hmac.Equal(got, s.mac(payload)) {
		return errBadCookie
	}
	return json.Unmarshal(payload, v)
}
