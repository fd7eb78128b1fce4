package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIssuer(t *testing.T) {
	t.Run("matches by name in text", func(t *testing.T) {
		iss := DetectIssuer("This certificate was issued by Coursera Inc.", nil)
		require.NotNil(t, iss)
		assert.Equal(t, "coursera", iss.Name)
	})

	t.Run("matches by domain in links", func(t *testing.T) {
		iss := DetectIssuer("no issuer mentioned", []string{"https://www.credly.com/badges/x"})
		require.NotNil(t, iss)
		assert.Equal(t, "credly", iss.Name)
	})

	t.Run("table order breaks ties", func(t *testing.T) {
		// both coursera and udemy appear; coursera is listed first
		iss := DetectIssuer("udemy course, verified via coursera.org", nil)
		require.NotNil(t, iss)
		assert.Equal(t, "coursera", iss.Name)
	})

	t.Run("case-insensitive", func(t *testing.T) {
		iss := DetectIssuer("ISSUED BY UDEMY", nil)
		require.NotNil(t, iss)
		assert.Equal(t, "udemy", iss.Name)
	})

	t.Run("unknown issuer is nil", func(t *testing.T) {
		assert.Nil(t, DetectIssuer("certificate from bob's diploma mill", []string{"https://bobs.example"}))
	})
}
