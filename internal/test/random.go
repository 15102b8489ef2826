package test

import (
	"math/rand"
	"strings"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random alphanumeric string of minLen..maxLen characters.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.Intn(maxLen-minLen+1)

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(asciiLetters[rand.Intn(len(asciiLetters))])
	}
	return b.String()
}

// RandomEmail returns a unique-looking lower-case address under example.com.
func RandomEmail() string {
	return strings.ToLower(RandomASCIIString(8, 12)) + "@example.com"
}
