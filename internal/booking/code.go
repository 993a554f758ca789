package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

const (
	codePrefix    = "MTB"
	codeAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeSuffixLen = 6
)

var bookingCodeRgx = regexp.MustCompile(`^MTB-\d{8}-[0-9A-Z]{6}$`)

// NewBookingCode returns a code such as MTB-20250301-7QK2ZD.
func NewBookingCode(now time.Time) (string, error) {
	suffix := make([]byte, codeSuffixLen)
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}

		suffix[i] = codeAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", codePrefix, now.UTC().Format("20060102"), suffix), nil
}

func IsBookingCode(code string) bool {
	return bookingCodeRgx.MatchString(code)
}
