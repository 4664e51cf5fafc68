package helpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/gomega"
)

// SignToken returns an HS256 token for subject holding roles
func SignToken(secret []byte, subject string, roles ...string) string {
	claims := jwt.MapClaims{
		"sub":   subject,
		"iss":   TestIssuer,
		"aud":   TestAudience,
		"roles": roles,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return token
}
