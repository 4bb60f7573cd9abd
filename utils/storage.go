package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"trainhub/config"
)

// SignedFileURL turns a stable file reference into a short-lived signed URL.
// Certificate rows store only the stable ref; links are signed at read time
// so stored URLs never go stale.
func SignedFileURL(cfg *config.Config, fileRef string, ttl time.Duration) string {
	expires := time.Now().Add(ttl).Unix()
	sig := signFileRef(cfg.StorageSecret, fileRef, expires)
	return fmt.Sprintf("%s/%s?expires=%d&sig=%s", cfg.StorageBaseURL, fileRef, expires, sig)
}

// VerifyFileSignature checks a signature produced by SignedFileURL.
func VerifyFileSignature(cfg *config.Config, fileRef string, expires int64, sig string) bool {
	if time.Now().Unix() > expires {
		return false
	}
	expected := signFileRef(cfg.StorageSecret, fileRef, expires)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func signFileRef(secret, fileRef string, expires int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fileRef + ":" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
